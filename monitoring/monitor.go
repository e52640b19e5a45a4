// Package monitoring turns a simulation into a small HTTP server so that a
// long-running run can be inspected and paused from outside.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/cmtsim/cmt"
	"github.com/sarchlab/cmtsim/sim"
)

// Monitor exposes a running simulation over HTTP: engine time and
// pause/continue control, per-tile state, process resource usage, and a CPU
// profile endpoint.
type Monitor struct {
	engine      sim.Engine
	tiles       []*cmt.CMT
	portNumber  int
	openBrowser bool
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes StartServer open the monitor URL in the default browser.
func (m *Monitor) WithBrowser() *Monitor {
	m.openBrowser = true
	return m
}

// RegisterEngine registers the engine that is used in the simulation.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// RegisterTile registers a tile to be monitored.
func (m *Monitor) RegisterTile(t *cmt.CMT) {
	m.tiles = append(m.tiles, t)
}

// StartServer starts the monitoring server in the background.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()
	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/tiles", m.listTiles)
	r.HandleFunc("/api/tiles/{name}", m.tileDetails)
	r.HandleFunc("/api/tiles/{name}/status", m.tileStatus)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		err := http.Serve(listener, r)
		dieOnErr(err)
	}()

	if m.openBrowser {
		_ = browser.OpenURL(url)
	}
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.engine.CurrentTime()
	fmt.Fprintf(w, "{\"now_ps\":%d}", int64(now))
}

func (m *Monitor) listTiles(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, t := range m.tiles {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "%q", t.Name())
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) tileDetails(w http.ResponseWriter, r *http.Request) {
	tile := m.findTileOr404(w, mux.Vars(r)["name"])
	if tile == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(tile)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type tileStatusRsp struct {
	Name       string  `json:"name"`
	Locked     bool    `json:"locked"`
	VCOFreqMHz float64 `json:"vco_freq_mhz"`
	Fatal      string  `json:"fatal,omitempty"`
}

func (m *Monitor) tileStatus(w http.ResponseWriter, r *http.Request) {
	tile := m.findTileOr404(w, mux.Vars(r)["name"])
	if tile == nil {
		return
	}

	rsp := tileStatusRsp{
		Name:       tile.Name(),
		Locked:     tile.IsLocked(),
		VCOFreqMHz: tile.VCOFreqMHz(),
	}
	if tile.Err() != nil {
		rsp.Fatal = tile.Err().Error()
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) findTileOr404(
	w http.ResponseWriter,
	name string,
) *cmt.CMT {
	for _, t := range m.tiles {
		if t.Name() == name {
			return t
		}
	}

	w.WriteHeader(http.StatusNotFound)

	return nil
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memorySize, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
