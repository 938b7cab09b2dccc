package search_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/loomkb/loom/pkg/logger"
	"github.com/loomkb/loom/pkg/search"
	testutils "github.com/loomkb/loom/pkg/utils/test"
	"github.com/loomkb/loom/pkg/vector"
	"github.com/loomkb/loom/pkg/vector/memvec"
)

var _ = Describe("Detector", func() {
	var (
		ctx      context.Context
		embedder *testutils.MockEmbedder
		drv      *memvec.Driver
		detector *search.Detector
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
		embedder.Embeddings["a draft about spaced repetition"] = []float32{1, 0, 0}

		var err error
		drv, err = memvec.NewDriver(memvec.Config{Dimensions: 3}, logger.NewLogger(false))
		Expect(err).NotTo(HaveOccurred())

		searcher := search.NewSearcher(embedder, drv, logger.NewLogger(false))
		detector = search.NewDetector(searcher, logger.NewLogger(false))

		// The item being checked, indexed under its own id: similarity 1.0.
		index("alice", "res-self", vector.KindResource, []float32{1, 0, 0})
		// A near-duplicate at ~0.85.
		index("alice", "res-dupe", vector.KindResource, []float32{0.85, 0.5268, 0})
		// Related but below the 0.8 threshold (~0.7).
		index("alice", "res-related", vector.KindResource, []float32{0.7, 0.714, 0})
	})

	AfterEach(func() {
		drv.Close()
	})

	Describe("FindDuplicates", func() {
		It("excludes the item itself and keeps hits above the threshold", func() {
			results := detector.FindDuplicates(ctx, "alice", "res-self", "a draft about spaced repetition")
			Expect(results).To(HaveLen(1))
			Expect(results[0].ItemID).To(Equal("res-dupe"))
			Expect(results[0].Rank).To(Equal(1))
		})

		It("omits items below the duplicate threshold", func() {
			results := detector.FindDuplicates(ctx, "alice", "res-self", "a draft about spaced repetition")
			for _, r := range results {
				Expect(r.Score).To(BeNumerically(">=", 0.8))
			}
		})

		It("returns an empty list when nothing clears the threshold", func() {
			results := detector.FindDuplicates(ctx, "alice", "res-related", "unrelated text entirely")
			Expect(results).To(BeEmpty())
		})

		It("does not cross owner boundaries", func() {
			index("bob", "bob-dupe", vector.KindResource, []float32{1, 0, 0})

			results := detector.FindDuplicates(ctx, "alice", "res-self", "a draft about spaced repetition")
			for _, r := range results {
				Expect(r.ItemID).NotTo(Equal("bob-dupe"))
			}
		})

		It("degrades to an empty list when embedding fails", func() {
			embedder.FailAll = true

			results := detector.FindDuplicates(ctx, "alice", "res-self", "a draft about spaced repetition")
			Expect(results).To(BeEmpty())
		})

		It("respects a configured limit", func() {
			searcher := search.NewSearcher(embedder, drv, logger.NewLogger(false))
			limited := search.NewDetector(searcher, logger.NewLogger(false),
				search.WithDuplicateLimit(1),
				search.WithDuplicateThreshold(0.5),
			)

			results := limited.FindDuplicates(ctx, "alice", "res-self", "a draft about spaced repetition")
			Expect(results).To(HaveLen(1))
			Expect(results[0].ItemID).To(Equal("res-dupe"))
		})
	})
})
