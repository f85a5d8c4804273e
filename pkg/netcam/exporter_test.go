package netcam_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/lumen-media/lumen-go/pkg/netcam"
)

// mockAdvertiser is a hand-rolled testify mock for the Advertiser interface.
type mockAdvertiser struct {
	mock.Mock
}

func (m *mockAdvertiser) AdvertiseCamera(ctx context.Context, info *netcam.CameraInfo) error {
	args := m.Called(ctx, info)
	return args.Error(0)
}

func (m *mockAdvertiser) UpdateCamera(node string, info *netcam.CameraInfo) error {
	args := m.Called(node, info)
	return args.Error(0)
}

func (m *mockAdvertiser) StopCamera(node string) error {
	args := m.Called(node)
	return args.Error(0)
}

func (m *mockAdvertiser) StopAll() {
	m.Called()
}

func testCameraInfo(node string) *netcam.CameraInfo {
	return &netcam.CameraInfo{
		Node:        node,
		Driver:      "uvcvideo",
		Fingerprint: "a1b2c3d4e5f6a7b8",
		Model:       "Test Camera",
		Port:        8554,
	}
}

func TestExporterExportAndUnexport(t *testing.T) {
	adv := &mockAdvertiser{}
	adv.On("AdvertiseCamera", mock.Anything, mock.Anything).Return(nil).Once()
	adv.On("StopCamera", "/dev/media0").Return(nil).Once()

	ex := netcam.NewExporter(adv)

	if err := ex.Export(context.Background(), testCameraInfo("/dev/media0")); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if got := ex.ExportCount(); got != 1 {
		t.Errorf("ExportCount = %d, want 1", got)
	}

	if err := ex.Unexport("/dev/media0"); err != nil {
		t.Fatalf("Unexport failed: %v", err)
	}
	if got := ex.ExportCount(); got != 0 {
		t.Errorf("ExportCount = %d, want 0", got)
	}

	adv.AssertExpectations(t)
}

func TestExporterExportMissingRequired(t *testing.T) {
	adv := &mockAdvertiser{}
	ex := netcam.NewExporter(adv)

	info := &netcam.CameraInfo{Node: "/dev/media0", Driver: "uvcvideo"} // no fingerprint
	err := ex.Export(context.Background(), info)
	if !errors.Is(err, netcam.ErrMissingRequired) {
		t.Errorf("Export error = %v, want ErrMissingRequired", err)
	}

	// Advertiser must not have been called
	adv.AssertNotCalled(t, "AdvertiseCamera", mock.Anything, mock.Anything)
}

func TestExporterExportAdvertiseFails(t *testing.T) {
	adv := &mockAdvertiser{}
	wantErr := errors.New("bind failed")
	adv.On("AdvertiseCamera", mock.Anything, mock.Anything).Return(wantErr).Once()

	ex := netcam.NewExporter(adv)

	err := ex.Export(context.Background(), testCameraInfo("/dev/media0"))
	if !errors.Is(err, wantErr) {
		t.Errorf("Export error = %v, want %v", err, wantErr)
	}
	if got := ex.ExportCount(); got != 0 {
		t.Errorf("ExportCount = %d, want 0 after failed export", got)
	}
}

func TestExporterUpdate(t *testing.T) {
	adv := &mockAdvertiser{}
	adv.On("AdvertiseCamera", mock.Anything, mock.Anything).Return(nil).Once()
	adv.On("UpdateCamera", "/dev/media0", mock.Anything).Return(nil).Once()

	ex := netcam.NewExporter(adv)

	if err := ex.Export(context.Background(), testCameraInfo("/dev/media0")); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	updated := testCameraInfo("/dev/media0")
	updated.Model = "Renamed Camera"
	if err := ex.Update(updated); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	adv.AssertExpectations(t)
}

func TestExporterUpdateUnknownNode(t *testing.T) {
	adv := &mockAdvertiser{}
	ex := netcam.NewExporter(adv)

	err := ex.Update(testCameraInfo("/dev/media9"))
	if !errors.Is(err, netcam.ErrNotFound) {
		t.Errorf("Update error = %v, want ErrNotFound", err)
	}
}

func TestExporterUnexportUnknownNode(t *testing.T) {
	adv := &mockAdvertiser{}
	ex := netcam.NewExporter(adv)

	err := ex.Unexport("/dev/media9")
	if !errors.Is(err, netcam.ErrNotFound) {
		t.Errorf("Unexport error = %v, want ErrNotFound", err)
	}
}

func TestExporterOnChange(t *testing.T) {
	adv := &mockAdvertiser{}
	adv.On("AdvertiseCamera", mock.Anything, mock.Anything).Return(nil)
	adv.On("StopCamera", "/dev/media0").Return(nil).Once()

	ex := netcam.NewExporter(adv)

	type change struct {
		node     string
		exported bool
	}
	var changes []change
	ex.OnChange(func(node string, exported bool) {
		changes = append(changes, change{node, exported})
	})

	ctx := context.Background()
	if err := ex.Export(ctx, testCameraInfo("/dev/media0")); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	// Re-exporting the same node refreshes the advertisement but is not a change.
	if err := ex.Export(ctx, testCameraInfo("/dev/media0")); err != nil {
		t.Fatalf("re-Export failed: %v", err)
	}

	if err := ex.Unexport("/dev/media0"); err != nil {
		t.Fatalf("Unexport failed: %v", err)
	}

	want := []change{
		{"/dev/media0", true},
		{"/dev/media0", false},
	}
	if len(changes) != len(want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("changes[%d] = %v, want %v", i, changes[i], want[i])
		}
	}
}

func TestExporterStop(t *testing.T) {
	adv := &mockAdvertiser{}
	adv.On("AdvertiseCamera", mock.Anything, mock.Anything).Return(nil)
	adv.On("StopAll").Return().Once()

	ex := netcam.NewExporter(adv)

	ctx := context.Background()
	if err := ex.Export(ctx, testCameraInfo("/dev/media0")); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if err := ex.Export(ctx, testCameraInfo("/dev/media1")); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	ex.Stop()

	if got := ex.ExportCount(); got != 0 {
		t.Errorf("ExportCount = %d, want 0 after Stop", got)
	}
	adv.AssertExpectations(t)
}
