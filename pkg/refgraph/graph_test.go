package refgraph_test

import (
	"context"
	"fmt"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/loomkb/loom/pkg/eventstream"
	"github.com/loomkb/loom/pkg/logger"
	"github.com/loomkb/loom/pkg/refgraph"
	"github.com/loomkb/loom/pkg/refgraph/inmemory"
	testutils "github.com/loomkb/loom/pkg/utils/test"
)

func TestRefgraph(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Refgraph Suite")
}

var _ = Describe("Graph", func() {
	var (
		ctx    context.Context
		owners *testutils.MockOwnerChecker
		events *testutils.MockPublisher
		graph  *refgraph.Graph
	)

	BeforeEach(func() {
		ctx = context.Background()

		owners = testutils.NewMockOwnerChecker()
		owners.Grant("alice", "res-1")
		owners.Grant("alice", "res-2")

		events = testutils.NewMockPublisher()
		graph = refgraph.NewGraph(inmemory.NewStore(), owners, events, logger.NewLogger(false))
	})

	Describe("Create", func() {
		It("creates a typed edge with generated id and timestamp", func() {
			edge, err := graph.Create(ctx, "alice", "res-1", refgraph.NoteTarget("note-1"), refgraph.TypeManual, "background", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(edge.ID).NotTo(BeEmpty())
			Expect(edge.OwnerID).To(Equal("alice"))
			Expect(edge.SourceID).To(Equal("res-1"))
			Expect(edge.Target.Kind()).To(Equal(refgraph.TargetNote))
			Expect(edge.Target.ID()).To(Equal("note-1"))
			Expect(edge.CreatedAt).NotTo(BeZero())
		})

		It("publishes an edge created event", func() {
			_, err := graph.Create(ctx, "alice", "res-1", refgraph.NoteTarget("note-1"), refgraph.TypeManual, "", "")
			Expect(err).NotTo(HaveOccurred())

			published := events.Events()
			Expect(published).To(HaveLen(1))
			Expect(published[0].EventType).To(Equal(eventstream.EventTypeEdgeCreated))
			Expect(published[0].OwnerID).To(Equal("alice"))
		})

		It("rejects a zero-value target", func() {
			_, err := graph.Create(ctx, "alice", "res-1", refgraph.Target{}, refgraph.TypeManual, "", "")
			Expect(err).To(MatchError(refgraph.ErrInvalidTarget))
		})

		It("rejects an unknown reference type", func() {
			_, err := graph.Create(ctx, "alice", "res-1", refgraph.NoteTarget("note-1"), refgraph.Type("BOGUS"), "", "")
			Expect(err).To(MatchError(refgraph.ErrInvalidType))
		})

		It("rejects a resource referencing itself", func() {
			_, err := graph.Create(ctx, "alice", "res-1", refgraph.ResourceTarget("res-1"), refgraph.TypeManual, "", "")
			Expect(err).To(MatchError(refgraph.ErrSelfReference))
		})

		It("allows a non-resource target sharing the source id", func() {
			_, err := graph.Create(ctx, "alice", "res-1", refgraph.NoteTarget("res-1"), refgraph.TypeManual, "", "")
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a source the owner does not own", func() {
			_, err := graph.Create(ctx, "alice", "res-other", refgraph.NoteTarget("note-1"), refgraph.TypeManual, "", "")
			Expect(err).To(MatchError(refgraph.ErrNotFound))
		})

		It("rejects creation for a different owner", func() {
			_, err := graph.Create(ctx, "bob", "res-1", refgraph.NoteTarget("note-1"), refgraph.TypeManual, "", "")
			Expect(err).To(MatchError(refgraph.ErrNotFound))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			_, err := graph.Create(ctx, "alice", "res-1", refgraph.NoteTarget("note-1"), refgraph.TypeManual, "", "")
			Expect(err).NotTo(HaveOccurred())

			_, err = graph.Create(ctx, "alice", "res-1", refgraph.ProjectTarget("proj-1"), refgraph.TypeCitation, "", "")
			Expect(err).NotTo(HaveOccurred())

			// res-2 points back at res-1: an incoming edge for res-1.
			_, err = graph.Create(ctx, "alice", "res-2", refgraph.ResourceTarget("res-1"), refgraph.TypeRelated, "", "")
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns outgoing edges only", func() {
			edges, err := graph.List(ctx, "alice", "res-1", refgraph.ListOptions{IncludeOutgoing: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(edges).To(HaveLen(2))
			for _, e := range edges {
				Expect(e.SourceID).To(Equal("res-1"))
			}
		})

		It("returns incoming edges only", func() {
			edges, err := graph.List(ctx, "alice", "res-1", refgraph.ListOptions{IncludeIncoming: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(edges).To(HaveLen(1))
			Expect(edges[0].SourceID).To(Equal("res-2"))
		})

		It("returns both directions newest first", func() {
			edges, err := graph.List(ctx, "alice", "res-1", refgraph.ListOptions{
				IncludeOutgoing: true,
				IncludeIncoming: true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(edges).To(HaveLen(3))
			for i := 1; i < len(edges); i++ {
				Expect(edges[i].CreatedAt.After(edges[i-1].CreatedAt)).To(BeFalse())
			}
		})

		It("filters by reference type", func() {
			edges, err := graph.List(ctx, "alice", "res-1", refgraph.ListOptions{
				IncludeOutgoing: true,
				IncludeIncoming: true,
				Type:            refgraph.TypeCitation,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(edges).To(HaveLen(1))
			Expect(edges[0].Type).To(Equal(refgraph.TypeCitation))
		})

		It("caps results at the limit", func() {
			edges, err := graph.List(ctx, "alice", "res-1", refgraph.ListOptions{
				IncludeOutgoing: true,
				IncludeIncoming: true,
				Limit:           2,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(edges).To(HaveLen(2))
		})

		It("applies the default cap, and lifts it for a negative limit", func() {
			for i := 0; i < refgraph.DefaultListLimit+5; i++ {
				_, err := graph.Create(ctx, "alice", "res-1", refgraph.NoteTarget(fmt.Sprintf("bulk-%d", i)), refgraph.TypeManual, "", "")
				Expect(err).NotTo(HaveOccurred())
			}

			edges, err := graph.List(ctx, "alice", "res-1", refgraph.ListOptions{IncludeOutgoing: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(edges).To(HaveLen(refgraph.DefaultListLimit))

			// Two outgoing edges from the setup plus the bulk ones.
			edges, err = graph.List(ctx, "alice", "res-1", refgraph.ListOptions{
				IncludeOutgoing: true,
				Limit:           -1,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(edges).To(HaveLen(refgraph.DefaultListLimit + 7))
		})

		It("returns nothing with neither direction selected", func() {
			edges, err := graph.List(ctx, "alice", "res-1", refgraph.ListOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(edges).To(BeEmpty())
		})

		It("does not expose another owner's edges", func() {
			edges, err := graph.List(ctx, "bob", "res-1", refgraph.ListOptions{
				IncludeOutgoing: true,
				IncludeIncoming: true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(edges).To(BeEmpty())
		})
	})

	Describe("Update", func() {
		var edge refgraph.Edge

		BeforeEach(func() {
			var err error
			edge, err = graph.Create(ctx, "alice", "res-1", refgraph.NoteTarget("note-1"), refgraph.TypeAISuggested, "", "")
			Expect(err).NotTo(HaveOccurred())
		})

		It("updates only the provided fields", func() {
			newType := refgraph.TypeManual
			updated, err := graph.Update(ctx, "alice", edge.ID, refgraph.EdgeUpdate{Type: &newType})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Type).To(Equal(refgraph.TypeManual))
			Expect(updated.SourceID).To(Equal(edge.SourceID))
			Expect(updated.Target).To(Equal(edge.Target))
		})

		It("updates context and snippet", func() {
			linkContext := "accepted suggestion"
			snippet := "p. 12"
			updated, err := graph.Update(ctx, "alice", edge.ID, refgraph.EdgeUpdate{
				Context: &linkContext,
				Snippet: &snippet,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Context).To(Equal("accepted suggestion"))
			Expect(updated.Snippet).To(Equal("p. 12"))
		})

		It("publishes an edge updated event", func() {
			newType := refgraph.TypeManual
			_, err := graph.Update(ctx, "alice", edge.ID, refgraph.EdgeUpdate{Type: &newType})
			Expect(err).NotTo(HaveOccurred())

			published := events.Events()
			Expect(published[len(published)-1].EventType).To(Equal(eventstream.EventTypeEdgeUpdated))
			Expect(published[len(published)-1].SubjectID).To(Equal(edge.ID))
		})

		It("rejects an invalid type", func() {
			bogus := refgraph.Type("BOGUS")
			_, err := graph.Update(ctx, "alice", edge.ID, refgraph.EdgeUpdate{Type: &bogus})
			Expect(err).To(MatchError(refgraph.ErrInvalidType))
		})

		It("returns ErrNotFound for an unknown edge", func() {
			newType := refgraph.TypeManual
			_, err := graph.Update(ctx, "alice", "missing", refgraph.EdgeUpdate{Type: &newType})
			Expect(err).To(MatchError(refgraph.ErrNotFound))
		})

		It("returns ErrNotFound for another owner's edge", func() {
			newType := refgraph.TypeManual
			_, err := graph.Update(ctx, "bob", edge.ID, refgraph.EdgeUpdate{Type: &newType})
			Expect(err).To(MatchError(refgraph.ErrNotFound))
		})
	})

	Describe("Delete", func() {
		It("deletes an edge and publishes an event", func() {
			edge, err := graph.Create(ctx, "alice", "res-1", refgraph.NoteTarget("note-1"), refgraph.TypeManual, "", "")
			Expect(err).NotTo(HaveOccurred())

			Expect(graph.Delete(ctx, "alice", edge.ID)).To(Succeed())

			published := events.Events()
			Expect(published[len(published)-1].EventType).To(Equal(eventstream.EventTypeEdgeDeleted))

			_, err = graph.List(ctx, "alice", "res-1", refgraph.ListOptions{IncludeOutgoing: true})
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns ErrNotFound for an unknown edge", func() {
			Expect(graph.Delete(ctx, "alice", "missing")).To(MatchError(refgraph.ErrNotFound))
		})
	})

	Describe("CascadeDelete", func() {
		It("removes every edge touching the target", func() {
			_, err := graph.Create(ctx, "alice", "res-1", refgraph.NoteTarget("note-1"), refgraph.TypeManual, "", "")
			Expect(err).NotTo(HaveOccurred())
			_, err = graph.Create(ctx, "alice", "res-2", refgraph.NoteTarget("note-1"), refgraph.TypeMention, "", "")
			Expect(err).NotTo(HaveOccurred())
			_, err = graph.Create(ctx, "alice", "res-1", refgraph.ProjectTarget("proj-1"), refgraph.TypeManual, "", "")
			Expect(err).NotTo(HaveOccurred())

			removed, err := graph.CascadeDelete(ctx, "alice", refgraph.NoteTarget("note-1"))
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(Equal(2))

			edges, err := graph.List(ctx, "alice", "res-1", refgraph.ListOptions{IncludeOutgoing: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(edges).To(HaveLen(1))
			Expect(edges[0].Target.Kind()).To(Equal(refgraph.TargetProject))
		})

		It("rejects a zero-value target", func() {
			_, err := graph.CascadeDelete(ctx, "alice", refgraph.Target{})
			Expect(err).To(MatchError(refgraph.ErrInvalidTarget))
		})
	})
})

var _ = Describe("Target", func() {
	It("reports its arm and id", func() {
		t := refgraph.AreaTarget("area-9")
		Expect(t.Kind()).To(Equal(refgraph.TargetArea))
		Expect(t.ID()).To(Equal("area-9"))
		Expect(t.IsZero()).To(BeFalse())
	})

	It("treats the zero value as invalid", func() {
		var t refgraph.Target
		Expect(t.IsZero()).To(BeTrue())
	})

	Describe("NewTarget", func() {
		It("rehydrates a stored kind and id", func() {
			t, err := refgraph.NewTarget(refgraph.TargetProject, "proj-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Kind()).To(Equal(refgraph.TargetProject))
		})

		It("rejects an unknown kind", func() {
			_, err := refgraph.NewTarget(refgraph.TargetKind("folder"), "x")
			Expect(err).To(MatchError(refgraph.ErrInvalidTarget))
		})

		It("rejects an empty id", func() {
			_, err := refgraph.NewTarget(refgraph.TargetNote, "")
			Expect(err).To(MatchError(refgraph.ErrInvalidTarget))
		})
	})
})
