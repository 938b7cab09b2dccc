package pgvec_test

import (
	"context"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/loomkb/loom/pkg/vector"
	"github.com/loomkb/loom/pkg/vector/pgvec"
)

func TestPgVec(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "PgVec Suite")
}

// connStr returns the PostgreSQL connection string from environment or skips the test.
func connStr() string {
	dsn := os.Getenv("LOOM_TEST_POSTGRES_DSN")
	if dsn == "" {
		Skip("LOOM_TEST_POSTGRES_DSN not set, skipping PostgreSQL tests")
	}
	return dsn
}

var _ = Describe("PgVecDriver", func() {
	Describe("NewPgVecDriver", func() {
		It("returns an error when DSN is empty", func() {
			_, err := pgvec.NewPgVecDriver(context.Background(), pgvec.Config{Dimensions: 3}, zap.NewNop())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("DSN is required"))
		})

		It("errors when dimensions are not specified", func() {
			_, err := pgvec.NewPgVecDriver(context.Background(), pgvec.Config{DSN: "postgres://x"}, zap.NewNop())
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("operations", func() {
		var (
			ctx    context.Context
			driver *pgvec.PgVecDriver
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
			dsn := connStr()

			var err error
			driver, err = pgvec.NewPgVecDriver(ctx, pgvec.Config{
				DSN:        dsn,
				Dimensions: 3,
			}, zap.NewNop())
			Expect(err).NotTo(HaveOccurred())

			// Clean the table before each test for isolation.
			Expect(driver.Remove(ctx, "alice", "res-1", vector.KindResource)).To(Succeed())
			Expect(driver.Remove(ctx, "alice", "res-2", vector.KindResource)).To(Succeed())
			Expect(driver.Remove(ctx, "bob", "res-1", vector.KindResource)).To(Succeed())
		})

		AfterEach(func() {
			if driver != nil {
				Expect(driver.Close()).To(Succeed())
			}
		})

		It("stores and retrieves an item", func() {
			Expect(driver.Upsert(ctx, item("alice", "res-1", vector.KindResource, []float32{1, 0, 0}))).To(Succeed())

			got, err := driver.Lookup(ctx, "alice", "res-1", vector.KindResource)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.TextHash).To(Equal("hash-res-1"))
			Expect(got.Embedding).To(Equal([]float32{1, 0, 0}))
		})

		It("replaces on conflict", func() {
			Expect(driver.Upsert(ctx, item("alice", "res-1", vector.KindResource, []float32{1, 0, 0}))).To(Succeed())
			Expect(driver.Upsert(ctx, item("alice", "res-1", vector.KindResource, []float32{0, 1, 0}))).To(Succeed())

			got, err := driver.Lookup(ctx, "alice", "res-1", vector.KindResource)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Embedding).To(Equal([]float32{0, 1, 0}))
		})

		It("scores and scopes queries by owner", func() {
			Expect(driver.Upsert(ctx, item("alice", "res-1", vector.KindResource, []float32{1, 0, 0}))).To(Succeed())
			Expect(driver.Upsert(ctx, item("alice", "res-2", vector.KindResource, []float32{0.9, 0.4359, 0}))).To(Succeed())
			Expect(driver.Upsert(ctx, item("bob", "res-1", vector.KindResource, []float32{1, 0, 0}))).To(Succeed())

			results, err := driver.Query(ctx, "alice", []float32{1, 0, 0}, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].ItemID).To(Equal("res-1"))
			Expect(results[0].Score).To(BeNumerically("~", 1.0, 0.001))
			Expect(results[1].ItemID).To(Equal("res-2"))
			Expect(results[1].Score).To(BeNumerically("~", 0.9, 0.01))
		})

		It("returns ErrNotFound after removal", func() {
			Expect(driver.Upsert(ctx, item("alice", "res-1", vector.KindResource, []float32{1, 0, 0}))).To(Succeed())
			Expect(driver.Remove(ctx, "alice", "res-1", vector.KindResource)).To(Succeed())

			_, err := driver.Lookup(ctx, "alice", "res-1", vector.KindResource)
			Expect(err).To(MatchError(vector.ErrNotFound))
		})
	})
})
