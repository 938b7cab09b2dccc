package search_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/loomkb/loom/pkg/logger"
	"github.com/loomkb/loom/pkg/search"
	testutils "github.com/loomkb/loom/pkg/utils/test"
	"github.com/loomkb/loom/pkg/vector"
	"github.com/loomkb/loom/pkg/vector/memvec"
)

func TestSearch(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Search Suite")
}

var _ = Describe("Searcher", func() {
	var (
		ctx      context.Context
		embedder *testutils.MockEmbedder
		drv      *memvec.Driver
		searcher *search.Searcher
	)

	index := func(ownerID, itemID string, kind vector.Kind, embedding []float32) {
		err := drv.Upsert(ctx, vector.Item{
			OwnerID:   ownerID,
			ItemID:    itemID,
			Kind:      kind,
			Embedding: embedding,
			TextHash:  "hash-" + itemID,
			UpdatedAt: time.Now(),
		})
		Expect(err).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		ctx = context.Background()

		embedder = testutils.NewMockEmbedder()
		embedder.Embeddings["distributed systems"] = []float32{1, 0, 0}

		var err error
		drv, err = memvec.NewDriver(memvec.Config{Dimensions: 3}, logger.NewLogger(false))
		Expect(err).NotTo(HaveOccurred())

		searcher = search.NewSearcher(embedder, drv, logger.NewLogger(false))

		index("alice", "res-exact", vector.KindResource, []float32{1, 0, 0})
		index("alice", "res-close", vector.KindResource, []float32{0.85, 0.5268, 0})
		index("alice", "note-far", vector.KindNote, []float32{0, 1, 0})
	})

	AfterEach(func() {
		drv.Close()
	})

	Describe("FindSimilar", func() {
		It("ranks results by similarity", func() {
			results, err := searcher.FindSimilar(ctx, "alice", "distributed systems", 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))

			Expect(results[0].ItemID).To(Equal("res-exact"))
			Expect(results[0].Rank).To(Equal(1))
			Expect(results[0].Score).To(BeNumerically("~", 1.0, 1e-4))

			Expect(results[1].ItemID).To(Equal("res-close"))
			Expect(results[1].Rank).To(Equal(2))
			Expect(results[1].Score).To(BeNumerically("~", 0.85, 1e-3))
		})

		It("applies the score floor", func() {
			results, err := searcher.FindSimilar(ctx, "alice", "distributed systems", 10, 0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})

		It("caps results at the limit", func() {
			results, err := searcher.FindSimilar(ctx, "alice", "distributed systems", 1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
		})

		It("scopes results to the requesting owner", func() {
			index("bob", "bob-secret", vector.KindResource, []float32{1, 0, 0})

			results, err := searcher.FindSimilar(ctx, "alice", "distributed systems", 10, 0)
			Expect(err).NotTo(HaveOccurred())
			for _, r := range results {
				Expect(r.OwnerID).To(Equal("alice"))
				Expect(r.ItemID).NotTo(Equal("bob-secret"))
			}
		})

		It("returns an empty list for an owner with no items", func() {
			results, err := searcher.FindSimilar(ctx, "nobody", "distributed systems", 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})

		It("propagates embedding failures", func() {
			embedder.FailOn = "distributed systems"

			_, err := searcher.FindSimilar(ctx, "alice", "distributed systems", 10, 0)
			Expect(err).To(HaveOccurred())
		})
	})
})
