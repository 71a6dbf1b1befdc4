package mpu9250

import (
	"fmt"
	"time"

	"github.com/ebelski/go-copter/mpu9250/regs"
)

// Bus is the I2C bus access the bypass transport needs. periph.io's
// i2c.Bus satisfies it.
type Bus interface {
	// Tx writes w to addr then, if r is non-empty, reads len(r) bytes in
	// the same transaction.
	Tx(addr uint16, w, r []byte) error
}

// bypass talks to both dies directly: the MPU at 0x68 and, once BYPASS_EN
// is set, the AK8963 at 0x0C on the same bus.
type bypass struct {
	bus Bus
}

func (b *bypass) readMPU(reg regs.MPUReg) (uint8, error) {
	var out [1]byte
	if err := b.bus.Tx(regs.MPUAddr, []byte{uint8(reg)}, out[:]); err != nil {
		return 0, fmt.Errorf("mpu9250: read %v: %w", reg, err)
	}
	return out[0], nil
}

func (b *bypass) writeMPU(reg regs.MPUReg, value uint8) error {
	if err := b.bus.Tx(regs.MPUAddr, []byte{uint8(reg), value}, nil); err != nil {
		return fmt.Errorf("mpu9250: write %v: %w", reg, err)
	}
	return nil
}

func (b *bypass) readAK(reg regs.AKReg) (uint8, error) {
	var out [1]byte
	if err := b.bus.Tx(regs.AKAddr, []byte{uint8(reg)}, out[:]); err != nil {
		return 0, fmt.Errorf("mpu9250: read ak8963 %v: %w", reg, err)
	}
	return out[0], nil
}

func (b *bypass) writeAK(reg regs.AKReg, value uint8) error {
	if err := b.bus.Tx(regs.AKAddr, []byte{uint8(reg), value}, nil); err != nil {
		return fmt.Errorf("mpu9250: write ak8963 %v: %w", reg, err)
	}
	return nil
}

func (b *bypass) burstMPU(start regs.MPUReg, buf []byte) error {
	if err := b.bus.Tx(regs.MPUAddr, []byte{uint8(start)}, buf); err != nil {
		return fmt.Errorf("mpu9250: burst read %v+%d: %w", start, len(buf), err)
	}
	return nil
}

// readMag bursts HXL through ST2. The seventh byte is status, not data,
// but reading it releases the AK8963's next measurement; a six-byte read
// would stall updates.
func (b *bypass) readMag(buf []byte) error {
	var raw [7]byte
	if err := b.bus.Tx(regs.AKAddr, []byte{uint8(regs.HXL)}, raw[:]); err != nil {
		return fmt.Errorf("mpu9250: read ak8963 samples: %w", err)
	}
	copy(buf, raw[:6])
	return nil
}

// NewI2C brings up an MPU-9250 on a directly attached I2C bus.
//
// The sequence resets the MPU, disables its internal I2C master, enables
// bypass mode so the AK8963 answers at its own address, resets the AK8963,
// verifies both identities, captures the fuse sensitivities, and applies
// cfg. The order is load-bearing; any failure aborts and no Device is
// returned.
func NewI2C(bus Bus, delay Delay, cfg Config) (*Device, error) {
	t := &bypass{bus: bus}

	if err := t.writeMPU(regs.PWR_MGMT_1, regs.PwrMgmt1Reset()); err != nil {
		return nil, err
	}
	delay(10 * time.Millisecond)

	// No internal master; the host owns the auxiliary bus.
	if err := t.writeMPU(regs.USER_CTRL, 0); err != nil {
		return nil, err
	}

	// AK8963 accesses are valid from here on.
	if err := t.writeMPU(regs.INT_PIN_CFG, regs.IntPinBypassEn); err != nil {
		return nil, err
	}

	if err := t.writeAK(regs.CNTL1, regs.Cntl1{Mode: regs.MagPowerDown}.Encode()); err != nil {
		return nil, err
	}
	delay(10 * time.Millisecond)

	if err := t.writeAK(regs.CNTL2, regs.Cntl2SoftReset); err != nil {
		return nil, err
	}

	if err := t.writeMPU(regs.PWR_MGMT_1, regs.PwrMgmt1Clock(regs.ClockAuto)); err != nil {
		return nil, err
	}

	if err := checkIdentity(t); err != nil {
		return nil, err
	}

	sensitivity, err := readSensitivity(t, delay)
	if err != nil {
		return nil, err
	}

	if err := cfg.apply(t); err != nil {
		return nil, err
	}

	return &Device{t: t, handle: newHandle(cfg, sensitivity)}, nil
}

// ReleaseI2C splits the device back into its bus and handle. ok is false
// if d was not built on the I2C transport. The device must not be used
// after release.
func ReleaseI2C(d *Device) (bus Bus, handle Handle, ok bool) {
	b, isBypass := d.t.(*bypass)
	if !isBypass {
		return nil, Handle{}, false
	}
	return b.bus, d.handle, true
}

// FromI2CHandle reforms a device from a bus and a handle captured by
// ReleaseI2C, skipping bring-up. The caller is responsible for pairing the
// handle with the physical device it came from.
func FromI2CHandle(bus Bus, handle Handle) *Device {
	return &Device{t: &bypass{bus: bus}, handle: handle}
}
