package nop_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/loomkb/loom/pkg/eventstream"
	"github.com/loomkb/loom/pkg/eventstream/nop"
)

func TestNop(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Nop Publisher Suite")
}

var _ = Describe("Publisher", func() {
	It("creates a non-nil publisher", func() {
		p := nop.NewPublisher()
		Expect(p).NotTo(BeNil())
	})

	It("returns ErrNilLinkEvent for nil events", func() {
		p := nop.NewPublisher()
		err := p.PublishLink(context.Background(), nil)
		Expect(err).To(MatchError(eventstream.ErrNilLinkEvent))
	})

	It("succeeds for non-nil events", func() {
		p := nop.NewPublisher()
		err := p.PublishLink(context.Background(), &eventstream.LinkEvent{})
		Expect(err).NotTo(HaveOccurred())
	})

	It("closes successfully", func() {
		p := nop.NewPublisher()
		Expect(p.Close()).To(Succeed())
	})
})
