package service

import (
	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Service HTTP", func() {
	Describe("HTTPInfo", func() {
		It("returns the expected router", func() {
			endpoints := EndpointsFromAddrs("proto", []string{":1", "localhost:2"})
			mux := chi.NewMux()
			sut := HTTPInfo{Info: NewInfo("name", endpoints), Mux: mux}

			Expect(sut.ServiceName()).Should(Equal("name"))
			Expect(sut.ExposeOn()).Should(Equal(endpoints))
			Expect(sut.Router()).Should(BeIdenticalTo(mux))
		})
	})
})
