package prehash_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/anonion0/n3map/name"
	"github.com/anonion0/n3map/prehash"
)

var _ = Describe("Pool", func() {
	var zone name.DomainName

	BeforeEach(func() {
		var err error
		zone, err = name.FromString("example.com.")
		Expect(err).NotTo(HaveOccurred())
	})

	It("emits batches of the requested size from every worker", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		params := prehash.Params{Zone: zone, Salt: "ab", Iterations: 1}
		pool := prehash.New(ctx, params, 2, 4, 0)

		for _, ch := range pool.Chans() {
			var batch prehash.Batch

			Eventually(ch, time.Second).Should(Receive(&batch))
			Expect(batch.Items).To(HaveLen(4))

			for _, item := range batch.Items {
				Expect(item.Label).NotTo(BeEmpty())
			}
		}

		Expect(pool.Stop()).To(Succeed())
	})

	It("never duplicates a counter value across workers within a block", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		params := prehash.Params{Zone: zone, Salt: "ab", Iterations: 1}
		pool := prehash.New(ctx, params, 4, 1, 0)

		seen := map[string]bool{}

		for _, ch := range pool.Chans() {
			var batch prehash.Batch
			Eventually(ch, time.Second).Should(Receive(&batch))

			for _, item := range batch.Items {
				Expect(seen[item.Label]).To(BeFalse())
				seen[item.Label] = true
			}
		}

		Expect(pool.Stop()).To(Succeed())
	})
})
