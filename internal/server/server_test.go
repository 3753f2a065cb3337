package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tufankoc/acik-kaynak-roket/internal/control"
	"github.com/tufankoc/acik-kaynak-roket/internal/mission"
	"github.com/tufankoc/acik-kaynak-roket/internal/server"
	"github.com/tufankoc/acik-kaynak-roket/internal/telemetry"
)

type snapshotBody struct {
	Lifecycle string `json:"lifecycle"`
	Status    struct {
		Text string `json:"text"`
	} `json:"status"`
	State struct {
		Altitude    float64 `json:"altitude"`
		MissionTime float64 `json:"mission_time"`
	} `json:"state"`
}

var _ = Describe("Server", func() {
	var (
		srv  *server.Server
		ctrl *mission.Controller
		ts   *httptest.Server
	)

	do := func(method, path, body string) *http.Response {
		req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
		Expect(err).NotTo(HaveOccurred())
		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	decode := func(resp *http.Response, v any) {
		defer resp.Body.Close()
		Expect(json.NewDecoder(resp.Body).Decode(v)).To(Succeed())
	}

	BeforeEach(func() {
		reg := prometheus.NewRegistry()
		sink, err := telemetry.NewPrometheusSink(reg)
		Expect(err).NotTo(HaveOccurred())

		ctrl = mission.New(mission.WithSink(sink))
		srv = server.New(ctrl, server.WithGatherer(reg))
		ts = httptest.NewServer(srv.Handler())
	})

	AfterEach(func() {
		ts.Close()
	})

	It("launches and reports the liftoff frame", func() {
		resp := do(http.MethodPost, "/mission/launch", `{"fuel":"10","payload":"1","throttle":"100"}`)
		Expect(resp.StatusCode).To(Equal(http.StatusAccepted))
		Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))

		var snap snapshotBody
		decode(resp, &snap)
		Expect(snap.Lifecycle).To(Equal("running"))
		Expect(snap.Status.Text).To(Equal(telemetry.StatusLiftoff.Text))
	})

	It("rejects a second launch while running", func() {
		do(http.MethodPost, "/mission/launch", "").Body.Close()

		resp := do(http.MethodPost, "/mission/launch", "")
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusConflict))
	})

	It("rejects malformed launch bodies", func() {
		resp := do(http.MethodPost, "/mission/launch", "{")
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(ctrl.Running()).To(BeFalse())
	})

	It("refuses oversized command bodies", func() {
		big := `{"fuel":"` + strings.Repeat("1", server.MaxBodyBytes) + `"}`

		resp := do(http.MethodPost, "/mission/launch", big)
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusRequestEntityTooLarge))
		Expect(ctrl.Running()).To(BeFalse())

		resp = do(http.MethodPut, "/mission/throttle", `{"percent":"`+strings.Repeat("5", server.MaxBodyBytes)+`"}`)
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusRequestEntityTooLarge))
	})

	It("swaps in a PID source and retunes it mid-flight", func() {
		var state struct {
			Name   string             `json:"name"`
			Params map[string]float64 `json:"params"`
		}

		resp := do(http.MethodGet, "/mission/controller", "")
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		decode(resp, &state)
		Expect(state.Name).To(Equal("manual"))
		Expect(state.Params).To(HaveKeyWithValue("percent", 0.0))

		resp = do(http.MethodPut, "/mission/controller", `{"name":"pid","params":{"kp":0.02,"ki":0.005,"target":100,"bias":0.15}}`)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		decode(resp, &state)
		Expect(state.Name).To(Equal("pid"))
		Expect(state.Params).To(HaveKeyWithValue("Target", 100.0))

		do(http.MethodPost, "/mission/launch", "").Body.Close()
		srv.Tick(0.05)

		resp = do(http.MethodPatch, "/mission/controller/params", `{"Target":50,"Kd":0.001}`)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		decode(resp, &state)
		Expect(state.Params).To(HaveKeyWithValue("Target", 50.0))
		Expect(state.Params).To(HaveKeyWithValue("Kd", 0.001))

		pid, ok := ctrl.ThrottleSource().(*control.PID)
		Expect(ok).To(BeTrue())
		Expect(pid.Target).To(Equal(50.0))

		resp = do(http.MethodPatch, "/mission/controller/params", `{"Target":80,"Gain":1}`)
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(pid.Target).To(Equal(50.0))
	})

	It("hands control back to the lever and refuses to tune it", func() {
		do(http.MethodPut, "/mission/controller", `{"name":"fixed","params":{"percent":40}}`).Body.Close()
		Expect(ctrl.ThrottleSource()).NotTo(BeNil())

		resp := do(http.MethodPatch, "/mission/controller/params", `{"Target":1}`)
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusConflict))

		resp = do(http.MethodPut, "/mission/controller", `{"name":"manual"}`)
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(ctrl.ThrottleSource()).To(BeNil())

		resp = do(http.MethodPut, "/mission/controller", `{"name":"lqr"}`)
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("answers CORS preflight", func() {
		resp := do(http.MethodOptions, "/mission/launch", "")
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Access-Control-Allow-Methods")).To(ContainSubstring("POST"))
		Expect(ctrl.Running()).To(BeFalse())
	})

	It("steps on tick and serves the snapshot", func() {
		do(http.MethodPost, "/mission/launch", "").Body.Close()
		for i := 0; i < 10; i++ {
			Expect(srv.Tick(0.05)).To(BeTrue())
		}

		var snap snapshotBody
		decode(do(http.MethodGet, "/mission/snapshot", ""), &snap)
		Expect(snap.State.Altitude).To(BeNumerically(">", 0))
		Expect(snap.State.MissionTime).To(BeNumerically("~", 0.5, 1e-9))
	})

	It("aborts an active mission only", func() {
		resp := do(http.MethodPost, "/mission/abort", "")
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusConflict))

		do(http.MethodPost, "/mission/launch", "").Body.Close()
		srv.Tick(0.05)

		var snap snapshotBody
		resp = do(http.MethodPost, "/mission/abort", "")
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		decode(resp, &snap)
		Expect(snap.Lifecycle).To(Equal("idle"))
		Expect(snap.Status.Text).To(Equal(telemetry.StatusAborted.Text))
	})

	It("cycles the button through launch, abort and launch", func() {
		var body struct {
			Action string `json:"action"`
			Label  string `json:"label"`
		}

		decode(do(http.MethodPost, "/mission/press", ""), &body)
		Expect(body.Action).To(Equal("launch"))
		Expect(body.Label).To(Equal(mission.LabelAbort))

		decode(do(http.MethodPost, "/mission/press", ""), &body)
		Expect(body.Action).To(Equal("abort"))
		Expect(body.Label).To(Equal(mission.LabelLaunch))
	})

	It("offers relaunch after touchdown and resets on press", func() {
		do(http.MethodPost, "/mission/launch", `{"throttle":"0"}`).Body.Close()
		Expect(srv.Tick(0.1)).To(BeFalse())
		Expect(ctrl.ActionLabel()).To(Equal(mission.LabelRelaunch))

		var body struct {
			Action string `json:"action"`
		}
		decode(do(http.MethodPost, "/mission/press", ""), &body)
		Expect(body.Action).To(Equal("reset"))
		Expect(ctrl.Lifecycle()).To(Equal(telemetry.LifecycleIdle))
	})

	It("moves the live throttle lever", func() {
		var body struct {
			Percent int `json:"percent"`
		}
		decode(do(http.MethodPut, "/mission/throttle", `{"percent":"150"}`), &body)
		Expect(body.Percent).To(Equal(100))

		decode(do(http.MethodPut, "/mission/throttle", `{"percent":"42.9"}`), &body)
		Expect(body.Percent).To(Equal(42))
		Expect(ctrl.Lever().Percent()).To(Equal(42))
	})

	It("resets to a ready system", func() {
		do(http.MethodPost, "/mission/launch", "").Body.Close()

		var snap snapshotBody
		decode(do(http.MethodPost, "/mission/reset", ""), &snap)
		Expect(snap.Lifecycle).To(Equal("idle"))
		Expect(snap.Status.Text).To(Equal(telemetry.StatusReady.Text))
	})

	It("renders the strip chart", func() {
		do(http.MethodPost, "/mission/launch", "").Body.Close()
		srv.Tick(0.05)

		resp := do(http.MethodGet, "/mission/chart.svg", "")
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).To(Equal("image/svg+xml"))
	})

	It("exposes flight gauges on /metrics", func() {
		do(http.MethodPost, "/mission/launch", "").Body.Close()
		srv.Tick(0.05)

		resp := do(http.MethodGet, "/metrics", "")
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		buf := new(strings.Builder)
		_, err := io.Copy(buf, resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("rocket_altitude_meters"))
	})

	It("drives the mission from the wall clock until canceled", func() {
		do(http.MethodPost, "/mission/launch", "").Body.Close()

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			srv.Drive(ctx)
			close(done)
		}()

		Eventually(func() float64 {
			var snap snapshotBody
			decode(do(http.MethodGet, "/mission/snapshot", ""), &snap)
			return snap.State.MissionTime
		}, time.Second, 10*time.Millisecond).Should(BeNumerically(">", 0))

		cancel()
		Eventually(done).Should(BeClosed())
	})
})
