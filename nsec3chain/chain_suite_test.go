package nsec3chain_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestNSEC3Chain(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "nsec3chain suite")
}
