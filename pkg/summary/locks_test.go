package summary

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("keyedMutex", func() {
	It("fails a try-lock while the key is held", func() {
		km := newKeyedMutex()

		km.Lock("res-1\x00v1")
		defer km.Unlock("res-1\x00v1")

		Expect(km.TryLock("res-1\x00v1")).To(BeFalse())
	})

	It("try-locks independent keys concurrently", func() {
		km := newKeyedMutex()

		Expect(km.TryLock("res-1\x00v1")).To(BeTrue())
		Expect(km.TryLock("res-1\x00v2")).To(BeTrue())
		km.Unlock("res-1\x00v1")
		km.Unlock("res-1\x00v2")
	})

	It("allows re-acquiring after unlock", func() {
		km := newKeyedMutex()

		Expect(km.TryLock("k")).To(BeTrue())
		km.Unlock("k")
		Expect(km.TryLock("k")).To(BeTrue())
		km.Unlock("k")
	})
})
