package mission_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tufankoc/acik-kaynak-roket/internal/flight"
	"github.com/tufankoc/acik-kaynak-roket/internal/mission"
	"github.com/tufankoc/acik-kaynak-roket/internal/telemetry"
)

var fullThrottle = mission.Inputs{Fuel: "10", Payload: "1", Throttle: "100"}

func flyToGround(c *mission.Controller, dt float64) {
	for i := 0; i < 200000 && c.Step(dt); i++ {
	}
}

func hasStatus(snaps []telemetry.Snapshot, text string) bool {
	for _, s := range snaps {
		if s.Status.Text == text {
			return true
		}
	}
	return false
}

var _ = Describe("Controller", func() {
	var (
		rec  *telemetry.Recorder
		ctrl *mission.Controller
	)

	BeforeEach(func() {
		rec = telemetry.NewRecorder()
		ctrl = mission.New(mission.WithSink(rec))
	})

	Context("when idle", func() {
		It("offers launch and reports a ready system", func() {
			Expect(ctrl.Lifecycle()).To(Equal(telemetry.LifecycleIdle))
			Expect(ctrl.ActionLabel()).To(Equal(mission.LabelLaunch))
			Expect(ctrl.Status()).To(Equal(telemetry.StatusReady))
			Expect(ctrl.Snapshot().Clock()).To(Equal("T- 00:00:00"))
		})

		It("ignores steps", func() {
			Expect(ctrl.Step(0.016)).To(BeFalse())
			Expect(rec.Len()).To(BeZero())
			Expect(ctrl.State()).To(Equal(flight.VehicleState{}))
		})

		It("ignores abort", func() {
			Expect(ctrl.Abort()).To(BeFalse())
			Expect(rec.Len()).To(BeZero())
			Expect(ctrl.Status()).To(Equal(telemetry.StatusReady))
		})
	})

	Context("on launch", func() {
		BeforeEach(func() {
			Expect(ctrl.Launch(fullThrottle)).To(BeTrue())
		})

		It("initializes the vehicle from the inputs", func() {
			Expect(ctrl.Lifecycle()).To(Equal(telemetry.LifecycleRunning))
			Expect(ctrl.ActionLabel()).To(Equal(mission.LabelAbort))
			Expect(ctrl.State().TotalMass).To(Equal(12000.0))
			Expect(ctrl.State().FuelMass).To(Equal(10000.0))
			Expect(ctrl.Lever().Percent()).To(Equal(100))

			last, ok := rec.Last()
			Expect(ok).To(BeTrue())
			Expect(last.Status).To(Equal(telemetry.StatusLiftoff))
			Expect(last.Clock()).To(Equal("T+ 00:00:00"))
		})

		It("does not relaunch while running", func() {
			ctrl.Step(0.1)
			Expect(ctrl.Launch(fullThrottle)).To(BeFalse())
			Expect(ctrl.State().MissionTime).To(BeNumerically("~", 0.1, 1e-12))
		})

		It("publishes one snapshot per step in order", func() {
			for i := 0; i < 10; i++ {
				ctrl.Step(0.05)
			}
			snaps := rec.Snapshots()
			Expect(snaps).To(HaveLen(11))
			for i := 1; i < len(snaps); i++ {
				Expect(snaps[i].Step).To(Equal(snaps[i-1].Step + 1))
				Expect(snaps[i].State.MissionTime).To(BeNumerically(">", snaps[i-1].State.MissionTime))
				Expect(snaps[i].State.PeakDynamicPressure).To(BeNumerically(">=", snaps[i-1].State.PeakDynamicPressure))
			}
		})

		It("keeps only the newest 100 history samples", func() {
			for i := 0; i < 150; i++ {
				Expect(ctrl.Step(0.05)).To(BeTrue())
			}
			snaps := rec.Snapshots()
			last := snaps[len(snaps)-1]
			Expect(last.AltitudeHistory).To(HaveLen(100))
			Expect(last.VelocityHistory).To(HaveLen(100))

			for i, alt := range last.AltitudeHistory {
				Expect(alt).To(Equal(snaps[len(snaps)-100+i].State.Altitude))
			}
		})

		It("samples the lever live", func() {
			ctrl.Step(0.05)
			Expect(ctrl.Snapshot().Thrust).To(Equal(5e6))

			ctrl.Lever().Set(40)
			ctrl.Step(0.05)
			Expect(ctrl.Snapshot().Thrust).To(BeNumerically("~", 2e6, 1e-6))
		})

		It("aborts back to idle and discards telemetry", func() {
			for i := 0; i < 20; i++ {
				ctrl.Step(0.05)
			}
			Expect(ctrl.Abort()).To(BeTrue())

			snap := ctrl.Snapshot()
			Expect(snap.Lifecycle).To(Equal(telemetry.LifecycleIdle))
			Expect(snap.State).To(Equal(flight.VehicleState{}))
			Expect(snap.AltitudeHistory).To(BeEmpty())
			Expect(snap.Status).To(Equal(telemetry.StatusAborted))
			Expect(snap.Clock()).To(Equal("T- 00:00:00"))
			Expect(ctrl.ActionLabel()).To(Equal(mission.LabelLaunch))

			published := rec.Len()
			Expect(ctrl.Step(0.05)).To(BeFalse())
			Expect(rec.Len()).To(Equal(published))
		})
	})

	Context("through a full flight", func() {
		It("ends on the ground and offers a relaunch", func() {
			ctrl.Launch(fullThrottle)
			flyToGround(ctrl, 0.05)

			Expect(ctrl.Lifecycle().Terminal()).To(BeTrue())
			Expect(ctrl.ActionLabel()).To(Equal(mission.LabelRelaunch))
			Expect(ctrl.State().Altitude).To(BeZero())
			Expect(ctrl.Step(0.05)).To(BeFalse())

			snaps := rec.Snapshots()
			Expect(hasStatus(snaps, telemetry.StatusMECO.Text)).To(BeTrue())
			Expect(hasStatus(snaps, telemetry.ApogeeText)).To(BeTrue())

			mecos := 0
			for _, s := range snaps {
				for _, e := range s.Events {
					if e.Kind == flight.EventMECO {
						mecos++
					}
				}
			}
			Expect(mecos).To(Equal(1))
		})

		It("resets on the next press and launches on the one after", func() {
			ctrl.Launch(fullThrottle)
			flyToGround(ctrl, 0.05)

			Expect(ctrl.Press(fullThrottle)).To(Equal(mission.ActionReset))
			Expect(ctrl.Lifecycle()).To(Equal(telemetry.LifecycleIdle))
			Expect(ctrl.Status()).To(Equal(telemetry.StatusReady))

			Expect(ctrl.Press(fullThrottle)).To(Equal(mission.ActionLaunch))
			Expect(ctrl.Lifecycle()).To(Equal(telemetry.LifecycleRunning))
			Expect(ctrl.Snapshot().Run).To(Equal(2))

			Expect(ctrl.Press(fullThrottle)).To(Equal(mission.ActionAbort))
			Expect(ctrl.Lifecycle()).To(Equal(telemetry.LifecycleIdle))
		})

		It("relaunches directly from a terminal state", func() {
			ctrl.Launch(fullThrottle)
			flyToGround(ctrl, 0.05)

			Expect(ctrl.Launch(fullThrottle)).To(BeTrue())
			Expect(ctrl.State()).To(Equal(flight.NewVehicleState(flight.NewRunConfiguration(10, 1))))
			Expect(ctrl.Snapshot().AltitudeHistory).To(BeEmpty())
		})

		It("lands immediately at zero throttle", func() {
			ctrl.Launch(mission.Inputs{Fuel: "10", Payload: "1", Throttle: "0"})
			Expect(ctrl.Step(0.016)).To(BeFalse())
			Expect(ctrl.Lifecycle()).To(Equal(telemetry.LifecycleLanded))
			Expect(ctrl.Status()).To(Equal(telemetry.StatusLanded))
			Expect(ctrl.State().FuelMass).To(Equal(10000.0))
		})

		It("reports a crash after a short burn", func() {
			ctrl.Launch(mission.Inputs{Fuel: "1", Payload: "0", Throttle: "100"})
			flyToGround(ctrl, 0.05)
			Expect(ctrl.Lifecycle()).To(Equal(telemetry.LifecycleCrashed))
			Expect(ctrl.Status()).To(Equal(telemetry.StatusCrashed))
		})

		It("reproduces a run after abort and relaunch", func() {
			dts := []float64{0.016, 0.017, 0.2, 0.016, 0.05, 0.033}

			ctrl.Launch(fullThrottle)
			var first []flight.VehicleState
			for _, dt := range dts {
				ctrl.Step(dt)
				first = append(first, ctrl.State())
			}
			ctrl.Abort()

			ctrl.Launch(fullThrottle)
			for i, dt := range dts {
				ctrl.Step(dt)
				Expect(ctrl.State()).To(Equal(first[i]))
			}
		})
	})

	Context("with degenerate inputs", func() {
		It("runs a massless vehicle to the ground without faulting", func() {
			ctrl.Launch(mission.Inputs{Fuel: "abc", Payload: "", Throttle: "lots"})
			Expect(ctrl.Config()).To(Equal(flight.NewRunConfiguration(0, 0)))

			Expect(ctrl.Step(0.1)).To(BeFalse())
			Expect(ctrl.Lifecycle()).To(Equal(telemetry.LifecycleLanded))
			Expect(ctrl.Snapshot().FuelPercent()).To(BeZero())
		})
	})

	Context("with an automatic throttle source", func() {
		It("uses the source instead of the lever", func() {
			ctrl = mission.New(
				mission.WithSink(rec),
				mission.WithThrottle(mission.ThrottleFunc(func(flight.VehicleState) float64 { return 0.5 })),
			)
			ctrl.Launch(fullThrottle)
			ctrl.Step(0.05)
			Expect(ctrl.Snapshot().Thrust).To(Equal(2.5e6))

			ctrl.SetThrottleSource(nil)
			ctrl.Step(0.05)
			Expect(ctrl.Snapshot().Thrust).To(Equal(5e6))
		})
	})
})
