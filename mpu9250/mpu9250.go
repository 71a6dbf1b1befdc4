// Package mpu9250 drives an Invensense MPU-9250 IMU and its on-package
// AK8963 magnetometer, over either a direct I2C bus or SPI.
//
// Over I2C the driver puts the MPU into bypass mode and addresses the
// AK8963 directly. Over SPI the AK8963 is unreachable from the host, so
// the driver programs the MPU's internal I2C master to proxy register
// accesses and to copy magnetometer samples into the MPU's external sensor
// window every sample cycle.
//
// Construction runs the full bring-up: reset, identity checks, a one-time
// read of the AK8963's factory sensitivity fuses, and configuration. A
// *Device exists only if all of that succeeded. Transport errors during
// sampling are returned to the caller and do not latch; the device remains
// usable.
package mpu9250

import (
	"time"

	"github.com/ebelski/go-copter/motion"
	"github.com/ebelski/go-copter/mpu9250/regs"
)

// Delay blocks for at least d. time.Sleep satisfies it; tests substitute
// a recorder.
type Delay func(d time.Duration)

// transport is the capability set the device core is written against.
// It stays unexported: only the bypass and SPI variants in this package
// implement it, so no unvalidated transport can participate.
type transport interface {
	readMPU(reg regs.MPUReg) (uint8, error)
	writeMPU(reg regs.MPUReg, value uint8) error
	readAK(reg regs.AKReg) (uint8, error)
	writeAK(reg regs.AKReg, value uint8) error

	// burstMPU reads len(buf) consecutive registers starting at start in
	// one bus transaction.
	burstMPU(start regs.MPUReg, buf []byte) error
	// readMag fills buf with the six little-endian magnetometer data
	// bytes, honoring the AK8963's ST2 release semantics for its variant.
	readMag(buf []byte) error
}

// Device is a live MPU-9250 + AK8963 pair. Not safe for concurrent use;
// callers serialize access.
type Device struct {
	t      transport
	handle Handle
}

var _ motion.MARG = (*Device)(nil)

// Handle returns the cached scale factors.
func (d *Device) Handle() Handle { return d.handle }

// WhoAmIMPU reads the MPU-9250's WHO_AM_I register.
func (d *Device) WhoAmIMPU() (uint8, error) { return d.t.readMPU(regs.WHO_AM_I) }

// WhoAmIAK reads the AK8963's WIA register.
func (d *Device) WhoAmIAK() (uint8, error) { return d.t.readAK(regs.WIA) }

// ReadMPURegister reads a single MPU-9250 register. Intended for debug
// tooling; sample queries use the burst operations.
func (d *Device) ReadMPURegister(reg regs.MPUReg) (uint8, error) { return d.t.readMPU(reg) }

// WriteMPURegister writes a single MPU-9250 register. Writing registers
// the driver manages (USER_CTRL, slave channels) can break sampling.
func (d *Device) WriteMPURegister(reg regs.MPUReg, value uint8) error {
	return d.t.writeMPU(reg, value)
}

// ReadAKRegister reads a single AK8963 register.
func (d *Device) ReadAKRegister(reg regs.AKReg) (uint8, error) { return d.t.readAK(reg) }

// WriteAKRegister writes a single AK8963 register.
func (d *Device) WriteAKRegister(reg regs.AKReg, value uint8) error {
	return d.t.writeAK(reg, value)
}

// Accelerometer reads linear acceleration in g.
func (d *Device) Accelerometer() (motion.Triplet[float32], error) {
	var buf [6]byte
	if err := d.t.burstMPU(regs.ACCEL_XOUT_H, buf[:]); err != nil {
		return motion.Triplet[float32]{}, err
	}
	return d.scaleAcc(beTriplet(buf[:])), nil
}

// Gyroscope reads angular rate in degrees per second.
func (d *Device) Gyroscope() (motion.Triplet[float32], error) {
	var buf [6]byte
	if err := d.t.burstMPU(regs.GYRO_XOUT_H, buf[:]); err != nil {
		return motion.Triplet[float32]{}, err
	}
	return d.scaleGyro(beTriplet(buf[:])), nil
}

// Magnetometer reads magnetic flux density in microtesla, axis-aligned to
// the accelerometer and gyroscope body frame.
func (d *Device) Magnetometer() (motion.Triplet[float32], error) {
	var buf [6]byte
	if err := d.t.readMag(buf[:]); err != nil {
		return motion.Triplet[float32]{}, err
	}
	return d.scaleMag(leTriplet(buf[:])), nil
}

// DOF6 reads acceleration and angular rate from one MPU sample cycle. The
// 14-byte window spans the temperature registers; those bytes are skipped.
func (d *Device) DOF6() (accel, gyro motion.Triplet[float32], err error) {
	var buf [14]byte
	if err := d.t.burstMPU(regs.ACCEL_XOUT_H, buf[:]); err != nil {
		return motion.Triplet[float32]{}, motion.Triplet[float32]{}, err
	}
	return d.scaleAcc(beTriplet(buf[0:6])), d.scaleGyro(beTriplet(buf[8:14])), nil
}

// MARG reads all nine degrees of freedom: a 6DOF burst followed by a
// magnetometer read.
func (d *Device) MARG() (accel, gyro, mag motion.Triplet[float32], err error) {
	accel, gyro, err = d.DOF6()
	if err != nil {
		return accel, gyro, motion.Triplet[float32]{}, err
	}
	mag, err = d.Magnetometer()
	return accel, gyro, mag, err
}

// Temperature reads the die temperature in degrees Celsius.
func (d *Device) Temperature() (float32, error) {
	var buf [2]byte
	if err := d.t.burstMPU(regs.TEMP_OUT_H, buf[:]); err != nil {
		return 0, err
	}
	count := int16(buf[0])<<8 | int16(buf[1])
	return float32(count)/333.87 + 21.0, nil
}

func (d *Device) scaleAcc(raw motion.Triplet[int16]) motion.Triplet[float32] {
	return motion.Map(raw, func(v int16) float32 { return float32(v) * d.handle.AccResolution })
}

func (d *Device) scaleGyro(raw motion.Triplet[int16]) motion.Triplet[float32] {
	return motion.Map(raw, func(v int16) float32 { return float32(v) * d.handle.GyroResolution })
}

func (d *Device) scaleMag(raw motion.Triplet[int16]) motion.Triplet[float32] {
	aligned := alignMagAxes(raw)
	scaled := motion.Map(aligned, func(v int16) float32 { return float32(v) * d.handle.MagResolution })
	return scaled.Mul(d.handle.MagSensitivity)
}

// alignMagAxes rotates the AK8963's frame into the accelerometer/gyro body
// frame: swap X and Y, negate Z. Negation wraps at the int16 boundary.
func alignMagAxes(raw motion.Triplet[int16]) motion.Triplet[int16] {
	return motion.Of(raw.Y, raw.X, -raw.Z)
}

// beTriplet decodes three big-endian int16 axes (MPU convention).
func beTriplet(b []byte) motion.Triplet[int16] {
	return motion.Of(
		int16(b[0])<<8|int16(b[1]),
		int16(b[2])<<8|int16(b[3]),
		int16(b[4])<<8|int16(b[5]),
	)
}

// leTriplet decodes three little-endian int16 axes (AK convention).
func leTriplet(b []byte) motion.Triplet[int16] {
	return motion.Of(
		int16(b[1])<<8|int16(b[0]),
		int16(b[3])<<8|int16(b[2]),
		int16(b[5])<<8|int16(b[4]),
	)
}

// checkIdentity reads both WHO_AM_I registers and rejects anything outside
// the accepted sets.
func checkIdentity(t transport) error {
	who, err := t.readMPU(regs.WHO_AM_I)
	if err != nil {
		return err
	}
	if !contains(regs.MPUWhoAmI, who) {
		return &WhoAmIError{Expected: regs.MPUWhoAmI, Actual: who}
	}
	wia, err := t.readAK(regs.WIA)
	if err != nil {
		return err
	}
	if wia != regs.AKWhoAmI {
		return &WhoAmIError{Expected: []uint8{regs.AKWhoAmI}, Actual: wia}
	}
	return nil
}

func contains(set []uint8, v uint8) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// readSensitivity captures the AK8963's factory fuse adjustments. The fuse
// ROM is only readable in fuse-ROM access mode, so the current CNTL1 is
// saved and restored around the read.
func readSensitivity(t transport, delay Delay) (motion.Triplet[float32], error) {
	var none motion.Triplet[float32]
	saved, err := t.readAK(regs.CNTL1)
	if err != nil {
		return none, err
	}
	fuseROM := regs.Cntl1{Mode: regs.MagFuseROM}
	if err := t.writeAK(regs.CNTL1, fuseROM.Encode()); err != nil {
		return none, err
	}
	delay(50 * time.Millisecond)

	var fuse [3]uint8
	for i, reg := range [3]regs.AKReg{regs.ASAX, regs.ASAY, regs.ASAZ} {
		if fuse[i], err = t.readAK(reg); err != nil {
			return none, err
		}
	}

	if err := t.writeAK(regs.CNTL1, saved); err != nil {
		return none, err
	}
	delay(20 * time.Millisecond)

	return motion.Of(
		magSensitivity(fuse[0]),
		magSensitivity(fuse[1]),
		magSensitivity(fuse[2]),
	), nil
}
