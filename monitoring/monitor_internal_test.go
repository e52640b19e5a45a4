package monitoring

import (
	"io"
	"log"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cmtsim/cmt"
	"github.com/sarchlab/cmtsim/sim"
)

func newSampleTile(engine sim.Engine, name string) *cmt.CMT {
	return cmt.MakeBuilder().
		WithEngine(engine).
		WithName(name).
		WithLogger(log.New(io.Discard, "", 0)).
		Build()
}

var _ = Describe("Monitor", func() {
	var (
		m      *Monitor
		engine sim.Engine
	)

	BeforeEach(func() {
		m = NewMonitor()
		engine = sim.NewSerialEngine()
		m.RegisterEngine(engine)
	})

	It("should register tiles", func() {
		m.RegisterTile(newSampleTile(engine, "Tile0"))
		m.RegisterTile(newSampleTile(engine, "Tile1"))

		Expect(m.tiles).To(HaveLen(2))
	})

	It("should reject privileged port numbers", func() {
		m.WithPortNumber(80)

		Expect(m.portNumber).To(Equal(0))
	})

	It("should report the engine time", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/now", nil)

		m.now(w, r)

		Expect(w.Body.String()).To(Equal(`{"now_ps":0}`))
	})

	It("should list registered tiles", func() {
		m.RegisterTile(newSampleTile(engine, "Tile0"))
		m.RegisterTile(newSampleTile(engine, "Tile1"))

		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/tiles", nil)

		m.listTiles(w, r)

		Expect(w.Body.String()).To(Equal(`["Tile0","Tile1"]`))
	})

	It("should 404 on unknown tile names", func() {
		w := httptest.NewRecorder()

		tile := m.findTileOr404(w, "NoSuchTile")

		Expect(tile).To(BeNil())
		Expect(w.Code).To(Equal(404))
	})
})
