package sqlitevec_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/loomkb/loom/pkg/vector"
	"github.com/loomkb/loom/pkg/vector/sqlitevec"
)

func TestSQLiteVec(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SQLiteVec Suite")
}

var _ = Describe("SQLiteVecDriver", func() {
	var logger *zap.Logger

	BeforeEach(func() {
		logger = zap.NewNop()
	})

	Describe("NewSQLiteVecDriver", func() {
		It("returns an error when DBPath is empty", func() {
			_, err := sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{DBPath: ""}, logger)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("database path is required"))
		})

		It("creates a driver with an in-memory database", func() {
			driver, err := sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
				DBPath:     ":memory:",
				Dimensions: 3,
			}, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(driver).NotTo(BeNil())
			Expect(driver.Close()).To(Succeed())
		})

		It("errors when dimensions are not specified", func() {
			_, err := sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
				DBPath: ":memory:",
			}, logger)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("operations", func() {
		var (
			ctx    context.Context
			driver *sqlitevec.SQLiteVecDriver
		)

		item := func(owner, id string, kind vector.Kind, emb []float32) vector.Item {
			return vector.Item{
				OwnerID:   owner,
				ItemID:    id,
				Kind:      kind,
				Embedding: emb,
				TextHash:  "hash-" + id,
				UpdatedAt: time.Now().UTC(),
			}
		}

		BeforeEach(func() {
			ctx = context.Background()
			var err error
			driver, err = sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
				DBPath:     ":memory:",
				Dimensions: 3,
			}, logger)
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			Expect(driver.Close()).To(Succeed())
		})

		Describe("Upsert and Lookup", func() {
			It("stores and retrieves an item", func() {
				in := item("alice", "res-1", vector.KindResource, []float32{1, 0, 0})
				Expect(driver.Upsert(ctx, in)).To(Succeed())

				got, err := driver.Lookup(ctx, "alice", "res-1", vector.KindResource)
				Expect(err).NotTo(HaveOccurred())
				Expect(got.TextHash).To(Equal("hash-res-1"))
				Expect(got.Embedding).To(Equal([]float32{1, 0, 0}))
			})

			It("replaces the embedding on re-upsert", func() {
				Expect(driver.Upsert(ctx, item("alice", "res-1", vector.KindResource, []float32{1, 0, 0}))).To(Succeed())
				Expect(driver.Upsert(ctx, item("alice", "res-1", vector.KindResource, []float32{0, 1, 0}))).To(Succeed())

				got, err := driver.Lookup(ctx, "alice", "res-1", vector.KindResource)
				Expect(err).NotTo(HaveOccurred())
				Expect(got.Embedding).To(Equal([]float32{0, 1, 0}))
			})

			It("rejects embeddings of the wrong dimension", func() {
				err := driver.Upsert(ctx, item("alice", "res-1", vector.KindResource, []float32{1, 0}))
				Expect(err).To(MatchError(vector.ErrDimensionMismatch))
			})

			It("returns ErrNotFound for an unknown key", func() {
				_, err := driver.Lookup(ctx, "alice", "res-missing", vector.KindResource)
				Expect(err).To(MatchError(vector.ErrNotFound))
			})

			It("keeps kinds distinct for the same item id", func() {
				Expect(driver.Upsert(ctx, item("alice", "x", vector.KindResource, []float32{1, 0, 0}))).To(Succeed())
				Expect(driver.Upsert(ctx, item("alice", "x", vector.KindNote, []float32{0, 1, 0}))).To(Succeed())

				res, err := driver.Lookup(ctx, "alice", "x", vector.KindResource)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Embedding).To(Equal([]float32{1, 0, 0}))

				note, err := driver.Lookup(ctx, "alice", "x", vector.KindNote)
				Expect(err).NotTo(HaveOccurred())
				Expect(note.Embedding).To(Equal([]float32{0, 1, 0}))
			})
		})

		Describe("Remove", func() {
			It("deletes a stored item", func() {
				Expect(driver.Upsert(ctx, item("alice", "res-1", vector.KindResource, []float32{1, 0, 0}))).To(Succeed())
				Expect(driver.Remove(ctx, "alice", "res-1", vector.KindResource)).To(Succeed())

				_, err := driver.Lookup(ctx, "alice", "res-1", vector.KindResource)
				Expect(err).To(MatchError(vector.ErrNotFound))
			})

			It("tolerates removing an absent key", func() {
				Expect(driver.Remove(ctx, "alice", "res-missing", vector.KindResource)).To(Succeed())
			})
		})

		Describe("Query", func() {
			BeforeEach(func() {
				Expect(driver.Upsert(ctx, item("alice", "res-exact", vector.KindResource, []float32{1, 0, 0}))).To(Succeed())
				Expect(driver.Upsert(ctx, item("alice", "res-close", vector.KindResource, []float32{0.9, 0.4359, 0}))).To(Succeed())
				Expect(driver.Upsert(ctx, item("alice", "note-far", vector.KindNote, []float32{0, 1, 0}))).To(Succeed())
				Expect(driver.Upsert(ctx, item("bob", "res-other", vector.KindResource, []float32{1, 0, 0}))).To(Succeed())
			})

			It("ranks results by similarity", func() {
				results, err := driver.Query(ctx, "alice", []float32{1, 0, 0}, 10, 0)
				Expect(err).NotTo(HaveOccurred())
				Expect(len(results)).To(BeNumerically(">=", 2))
				Expect(results[0].ItemID).To(Equal("res-exact"))
				Expect(results[0].Score).To(BeNumerically("~", 1.0, 0.001))
				Expect(results[1].ItemID).To(Equal("res-close"))
				Expect(results[1].Score).To(BeNumerically("~", 0.9, 0.01))
			})

			It("applies the similarity floor", func() {
				results, err := driver.Query(ctx, "alice", []float32{1, 0, 0}, 10, 0.8)
				Expect(err).NotTo(HaveOccurred())
				for _, r := range results {
					Expect(r.Score).To(BeNumerically(">=", 0.8))
					Expect(r.ItemID).NotTo(Equal("note-far"))
				}
			})

			It("never returns another owner's items", func() {
				results, err := driver.Query(ctx, "alice", []float32{1, 0, 0}, 10, 0)
				Expect(err).NotTo(HaveOccurred())
				for _, r := range results {
					Expect(r.ItemID).NotTo(Equal("res-other"))
				}
			})

			It("truncates to the limit", func() {
				results, err := driver.Query(ctx, "alice", []float32{1, 0, 0}, 1, 0)
				Expect(err).NotTo(HaveOccurred())
				Expect(results).To(HaveLen(1))
			})

			It("rejects a query of the wrong dimension", func() {
				_, err := driver.Query(ctx, "alice", []float32{1, 0}, 10, 0)
				Expect(err).To(MatchError(vector.ErrDimensionMismatch))
			})
		})
	})
})
