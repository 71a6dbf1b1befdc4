package mpu9250

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ebelski/go-copter/motion"
	"github.com/ebelski/go-copter/mpu9250/regs"
)

// fakeBus emulates both dies on a bypass-mode I2C bus: register files for
// the MPU at 0x68 and the AK8963 at 0x0C, with every transaction and delay
// appended to a shared log so tests can assert the exact bring-up order.
type fakeBus struct {
	t   *testing.T
	mpu [256]uint8
	ak  [256]uint8
	log []string

	// nextMag, when set, becomes the live HXL..HZH contents after a read
	// that consumes ST2. A read that skips ST2 leaves the stale bytes in
	// place, matching the AK8963's measurement release semantics.
	nextMag *[6]uint8
}

func newFakeBus(t *testing.T) *fakeBus {
	b := &fakeBus{t: t}
	b.mpu[regs.WHO_AM_I] = 0x71
	b.ak[regs.WIA] = 0x48
	b.ak[regs.ASAX] = 128
	b.ak[regs.ASAY] = 128
	b.ak[regs.ASAZ] = 128
	return b
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	var file *[256]uint8
	var die string
	switch addr {
	case regs.MPUAddr:
		file, die = &b.mpu, "mpu"
	case regs.AKAddr:
		file, die = &b.ak, "ak"
	default:
		b.t.Fatalf("Tx to unexpected address 0x%02X", addr)
	}

	reg := w[0]
	switch {
	case len(w) == 2 && len(r) == 0:
		b.log = append(b.log, fmt.Sprintf("w %s 0x%02X 0x%02X", die, reg, w[1]))
		file[reg] = w[1]
	case len(w) == 1 && len(r) > 0:
		b.log = append(b.log, fmt.Sprintf("r %s 0x%02X+%d", die, reg, len(r)))
		for i := range r {
			r[i] = file[int(reg)+i]
		}
		if die == "ak" && b.nextMag != nil &&
			int(reg) <= int(regs.ST2) && int(reg)+len(r) > int(regs.ST2) {
			copy(b.ak[regs.HXL:], b.nextMag[:])
			b.nextMag = nil
		}
	default:
		b.t.Fatalf("Tx with unexpected framing: w=%d r=%d bytes", len(w), len(r))
	}
	return nil
}

func (b *fakeBus) delay(d time.Duration) {
	b.log = append(b.log, fmt.Sprintf("delay %s", d))
}

func (b *fakeBus) setMPU16BE(reg regs.MPUReg, v int16) {
	b.mpu[reg] = uint8(uint16(v) >> 8)
	b.mpu[int(reg)+1] = uint8(uint16(v))
}

func TestNewI2CBringUp(t *testing.T) {
	bus := newFakeBus(t)

	d, err := NewI2C(bus, bus.delay, Config{})
	if err != nil {
		t.Fatalf("NewI2C(): %v", err)
	}

	want := []string{
		"w mpu 0x6B 0x80", // reset
		"delay 10ms",
		"w mpu 0x6A 0x00", // internal master off
		"w mpu 0x37 0x02", // bypass on
		"w ak 0x0A 0x00",  // magnetometer power down
		"delay 10ms",
		"w ak 0x0B 0x01",  // magnetometer soft reset
		"w mpu 0x6B 0x01", // auto clock
		"r mpu 0x75+1",    // identities
		"r ak 0x00+1",
		"r ak 0x0A+1", // fuse read, CNTL1 saved and restored
		"w ak 0x0A 0x0F",
		"delay 50ms",
		"r ak 0x10+1",
		"r ak 0x11+1",
		"r ak 0x12+1",
		"w ak 0x0A 0x00",
		"delay 20ms",
		"w mpu 0x1B 0x00", // configuration
		"w mpu 0x1A 0x00",
		"w mpu 0x1C 0x00",
		"w mpu 0x1D 0x00",
		"w mpu 0x19 0x00",
		"w ak 0x0A 0x00",
	}
	if len(bus.log) != len(want) {
		t.Fatalf("bring-up log has %d entries, want %d:\n%v", len(bus.log), len(want), bus.log)
	}
	for i := range want {
		if bus.log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, bus.log[i], want[i])
		}
	}

	if got := d.Handle().MagSensitivity; got != motion.Of[float32](1, 1, 1) {
		t.Errorf("MagSensitivity = %v, want (1, 1, 1)", got)
	}
}

func TestNewI2CAppliesConfig(t *testing.T) {
	bus := newFakeBus(t)

	cfg := Config{
		GyroScale:         regs.GyroFS1000DPS,
		AccelScale:        regs.AccelFS8G,
		DLPF:              3,
		AccelRate:         0x06,
		MagControl:        regs.Cntl1{Mode: regs.MagContinuous100Hz, Output16: true},
		SampleRateDivider: 4,
	}
	if _, err := NewI2C(bus, bus.delay, cfg); err != nil {
		t.Fatalf("NewI2C(): %v", err)
	}

	checks := []struct {
		name string
		got  uint8
		want uint8
	}{
		{"GYRO_CONFIG", bus.mpu[regs.GYRO_CONFIG], 0x10},
		{"CONFIG", bus.mpu[regs.CONFIG], 0x03},
		{"ACCEL_CONFIG", bus.mpu[regs.ACCEL_CONFIG], 0x10},
		{"ACCEL_CONFIG_2", bus.mpu[regs.ACCEL_CONFIG_2], 0x06},
		{"SMPLRT_DIV", bus.mpu[regs.SMPLRT_DIV], 0x04},
		{"CNTL1", bus.ak[regs.CNTL1], 0x46},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = 0x%02X, want 0x%02X", c.name, c.got, c.want)
		}
	}
}

func TestNewI2CRejectsIdentity(t *testing.T) {
	bus := newFakeBus(t)
	bus.mpu[regs.WHO_AM_I] = 0x68

	d, err := NewI2C(bus, bus.delay, Config{})
	if d != nil {
		t.Fatal("NewI2C() returned a device despite identity mismatch")
	}
	var werr *WhoAmIError
	if !errors.As(err, &werr) {
		t.Fatalf("NewI2C(): %v, want *WhoAmIError", err)
	}
	if werr.Actual != 0x68 || len(werr.Expected) != 2 {
		t.Errorf("WhoAmIError = %+v, want Actual 0x68 Expected [0x71 0x73]", werr)
	}

	// Bring-up must stop at the failed identity read.
	if last := bus.log[len(bus.log)-1]; last != "r mpu 0x75+1" {
		t.Errorf("last bus operation = %q, want the WHO_AM_I read", last)
	}
}

func TestBypassMagReadBurstsThroughST2(t *testing.T) {
	bus := newFakeBus(t)
	bus.ak[regs.HXL] = 0x10
	bus.ak[regs.HYL] = 0x20
	bus.ak[regs.HZL] = 0x30

	d := FromI2CHandle(bus, Handle{MagResolution: 1, MagSensitivity: motion.Of[float32](1, 1, 1)})
	got, err := d.Magnetometer()
	if err != nil {
		t.Fatalf("Magnetometer(): %v", err)
	}

	// Seven bytes so that ST2 is consumed, even though only six carry data.
	if len(bus.log) != 1 || bus.log[0] != "r ak 0x03+7" {
		t.Errorf("bus traffic = %v, want one 7-byte read at HXL", bus.log)
	}
	if want := motion.Of[float32](0x20, 0x10, -0x30); got != want {
		t.Errorf("Magnetometer() = %v, want %v", got, want)
	}
}

func TestBypassMagReadReleasesNextMeasurement(t *testing.T) {
	bus := newFakeBus(t)
	bus.ak[regs.HXL] = 0x01
	bus.nextMag = &[6]uint8{0x02}

	d := FromI2CHandle(bus, Handle{MagResolution: 1, MagSensitivity: motion.Of[float32](1, 1, 1)})

	first, err := d.Magnetometer()
	if err != nil {
		t.Fatalf("Magnetometer(): %v", err)
	}
	second, err := d.Magnetometer()
	if err != nil {
		t.Fatalf("Magnetometer(): %v", err)
	}

	// The first read's burst covered ST2, so the second read must see the
	// fresh measurement, not the stale bytes.
	if first.Y != 1 {
		t.Errorf("first reading Y = %v, want 1", first.Y)
	}
	if second.Y != 2 {
		t.Errorf("second reading Y = %v, want 2 after ST2 release", second.Y)
	}
}

func TestI2CDOF6SingleBurst(t *testing.T) {
	bus := newFakeBus(t)
	bus.setMPU16BE(regs.ACCEL_XOUT_H, 16384)
	bus.setMPU16BE(regs.GYRO_ZOUT_H, -16384)

	d, err := NewI2C(bus, bus.delay, Config{GyroScale: regs.GyroFS500DPS})
	if err != nil {
		t.Fatalf("NewI2C(): %v", err)
	}
	bus.log = nil

	accel, gyro, err := d.DOF6()
	if err != nil {
		t.Fatalf("DOF6(): %v", err)
	}
	if len(bus.log) != 1 || bus.log[0] != "r mpu 0x3B+14" {
		t.Errorf("bus traffic = %v, want one 14-byte read at ACCEL_XOUT_H", bus.log)
	}
	if want := motion.Of[float32](1, 0, 0); accel != want {
		t.Errorf("accel = %v, want %v", accel, want)
	}
	if want := motion.Of[float32](0, 0, -250); gyro != want {
		t.Errorf("gyro = %v, want %v", gyro, want)
	}
}

func TestReleaseI2CRejoin(t *testing.T) {
	bus := newFakeBus(t)
	bus.setMPU16BE(regs.ACCEL_YOUT_H, 8192)

	d, err := NewI2C(bus, bus.delay, Config{AccelScale: regs.AccelFS4G})
	if err != nil {
		t.Fatalf("NewI2C(): %v", err)
	}
	before, err := d.Accelerometer()
	if err != nil {
		t.Fatalf("Accelerometer(): %v", err)
	}

	released, handle, ok := ReleaseI2C(d)
	if !ok {
		t.Fatal("ReleaseI2C() ok = false for an I2C device")
	}
	if released != Bus(bus) {
		t.Error("ReleaseI2C() returned a different bus")
	}

	logBefore := len(bus.log)
	rejoined := FromI2CHandle(released, handle)
	after, err := rejoined.Accelerometer()
	if err != nil {
		t.Fatalf("Accelerometer() after rejoin: %v", err)
	}
	if after != before {
		t.Errorf("reading after rejoin = %v, want %v", after, before)
	}
	// Reforming from a handle must not touch the bus.
	if len(bus.log) != logBefore+1 {
		t.Errorf("rejoin issued %d extra bus operations", len(bus.log)-logBefore-1)
	}

	if _, _, ok := ReleaseSPI(d); ok {
		t.Error("ReleaseSPI() ok = true for an I2C device")
	}
}
