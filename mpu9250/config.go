package mpu9250

import (
	"github.com/ebelski/go-copter/motion"
	"github.com/ebelski/go-copter/mpu9250/regs"
)

// Config selects scaling and sampling rates. The zero value is a usable
// default: ±250 deg/s, ±2 g, DLPF band 0, magnetometer powered down with
// 14-bit output.
type Config struct {
	// GyroScale is the gyroscope full-scale range.
	GyroScale regs.GyroFS
	// AccelScale is the accelerometer full-scale range.
	AccelScale regs.AccelFS
	// FChoice selects the gyro DLPF or one of the bypass bandwidths.
	FChoice regs.FChoice
	// DLPF is the digital low-pass filter band, effective when FChoice
	// selects the DLPF.
	DLPF regs.DLPF
	// AccelRate is written verbatim to ACCEL_CONFIG_2.
	AccelRate uint8
	// MagControl is the AK8963 operating mode and output width.
	MagControl regs.Cntl1
	// SampleRateDivider divides the internal sample rate:
	// rate = internal / (1 + SampleRateDivider). Only effective when
	// FChoice selects the DLPF.
	SampleRateDivider uint8
}

// apply writes the configuration to both dies. Write order matters: the
// gyro and accel ranges land before the rate divider, and the AK8963 mode
// goes last.
func (c Config) apply(t transport) error {
	gyro := regs.GyroConfig{FullScale: c.GyroScale, FChoice: c.FChoice}
	if err := t.writeMPU(regs.GYRO_CONFIG, gyro.Encode()); err != nil {
		return err
	}
	if err := t.writeMPU(regs.CONFIG, regs.MPUConfig{DLPF: c.DLPF}.Encode()); err != nil {
		return err
	}
	accel := regs.AccelConfig{FullScale: c.AccelScale}
	if err := t.writeMPU(regs.ACCEL_CONFIG, accel.Encode()); err != nil {
		return err
	}
	if err := t.writeMPU(regs.ACCEL_CONFIG_2, c.AccelRate); err != nil {
		return err
	}
	if err := t.writeMPU(regs.SMPLRT_DIV, c.SampleRateDivider); err != nil {
		return err
	}
	return t.writeAK(regs.CNTL1, c.MagControl.Encode())
}

// Handle caches the scale factors derived once at bring-up. Release returns
// it so a device can later be reformed without repeating bring-up.
type Handle struct {
	// GyroResolution converts raw counts to degrees per second.
	GyroResolution float32
	// AccResolution converts raw counts to g.
	AccResolution float32
	// MagResolution converts raw counts to microtesla.
	MagResolution float32
	// MagSensitivity is the per-axis factory fuse adjustment.
	MagSensitivity motion.Triplet[float32]
}

func newHandle(cfg Config, sensitivity motion.Triplet[float32]) Handle {
	var magRes float32
	if cfg.MagControl.Output16 {
		magRes = 10. * 4912. / 32760.
	} else {
		magRes = 10. * 4912. / 8190.
	}
	return Handle{
		GyroResolution: cfg.GyroScale.DPS() / 32768.0,
		AccResolution:  cfg.AccelScale.G() / 32768.0,
		MagResolution:  magRes,
		MagSensitivity: sensitivity,
	}
}

// magSensitivity converts a fuse ROM byte to its adjustment factor.
func magSensitivity(fuse uint8) float32 {
	return (float32(fuse)-128.0)/256.0 + 1.0
}
