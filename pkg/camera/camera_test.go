package camera

import (
	"testing"

	"github.com/lumen-media/lumen-go/pkg/media"
)

func newTestDevice(node, driver string, entities ...string) *media.Device {
	dev := media.NewDevice(node, driver)
	es := make([]media.Entity, 0, len(entities))
	for _, name := range entities {
		es = append(es, media.Entity{Name: name})
	}
	dev.Populate(es)
	return dev
}

func TestCameraIdentity(t *testing.T) {
	dev := newTestDevice("/dev/media0", "uvcvideo")
	dev.SetModel("Logitech C920")

	cam := New("uvc", "Logitech C920", dev)

	if want := "uvc:" + dev.Fingerprint(); cam.ID() != want {
		t.Errorf("ID() = %q, want %q", cam.ID(), want)
	}
	if cam.Name() != "Logitech C920" {
		t.Errorf("Name() = %q, want %q", cam.Name(), "Logitech C920")
	}
	if cam.Pipeline() != "uvc" {
		t.Errorf("Pipeline() = %q, want %q", cam.Pipeline(), "uvc")
	}
	if cam.Node() != "/dev/media0" {
		t.Errorf("Node() = %q, want %q", cam.Node(), "/dev/media0")
	}
	if cam.Device() != dev {
		t.Error("Device() should return the wrapped device")
	}
}

func TestCameraIDStableAcrossInstances(t *testing.T) {
	// Two probes of the same hardware produce distinct device
	// instances with the same fingerprint; the camera ID must not
	// depend on which instance backed it.
	first := newTestDevice("/dev/media0", "uvcvideo")
	second := newTestDevice("/dev/media0", "uvcvideo")

	a := New("uvc", "cam", first)
	b := New("uvc", "cam", second)

	if a.ID() != b.ID() {
		t.Errorf("IDs differ across instances: %q vs %q", a.ID(), b.ID())
	}
}

func TestCameraIDDistinguishesNodes(t *testing.T) {
	a := New("uvc", "cam", newTestDevice("/dev/media0", "uvcvideo"))
	b := New("uvc", "cam", newTestDevice("/dev/media1", "uvcvideo"))

	if a.ID() == b.ID() {
		t.Errorf("identical IDs for different nodes: %q", a.ID())
	}
}

func TestCameraSurvivesRemoval(t *testing.T) {
	dev := newTestDevice("/dev/media0", "vimc", "Sensor A")
	dev.SetModel("VIMC")
	cam := New("vimc", "VIMC", dev)

	if cam.Removed() {
		t.Fatal("camera removed before the device went away")
	}

	dev.MarkRemoved()

	if !cam.Removed() {
		t.Error("Removed() should follow the device")
	}
	if cam.Name() != "VIMC" || cam.Node() != "/dev/media0" {
		t.Error("camera should stay readable after removal")
	}
	if cam.Device().Model() != "VIMC" {
		t.Error("device snapshot should stay readable after removal")
	}
}

func TestSubscriptionOrderAndCancel(t *testing.T) {
	var list subscriberList
	var got []string

	subA := list.add(func(*Camera) { got = append(got, "a") })
	list.add(func(*Camera) { got = append(got, "b") })
	list.add(func(*Camera) { got = append(got, "c") })

	cam := New("uvc", "cam", newTestDevice("/dev/media0", "uvcvideo"))

	list.notify(cam)
	if want := "abc"; joined(got) != want {
		t.Fatalf("dispatch order = %q, want %q", joined(got), want)
	}

	got = nil
	subA.Cancel()
	subA.Cancel() // second cancel is a no-op

	list.notify(cam)
	if want := "bc"; joined(got) != want {
		t.Errorf("dispatch after cancel = %q, want %q", joined(got), want)
	}
}

func TestSubscriptionCancelDuringDispatch(t *testing.T) {
	var list subscriberList

	calls := 0
	var self *Subscription
	self = list.add(func(*Camera) {
		calls++
		self.Cancel()
	})

	cam := New("uvc", "cam", newTestDevice("/dev/media0", "uvcvideo"))

	list.notify(cam)
	list.notify(cam)

	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
}

func joined(parts []string) string {
	out := ""
	for _, p := range parts {
		out += p
	}
	return out
}
