package app

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/ebelski/go-copter/internal/config"
	"github.com/ebelski/go-copter/mpu9250"
	"github.com/ebelski/go-copter/mpu9250/regs"
)

// driverConfig maps file configuration onto the driver's Config. The range
// and filter codes are validated at config load, so the casts are total.
func driverConfig(cfg *config.Config) mpu9250.Config {
	return mpu9250.Config{
		GyroScale:  regs.GyroFS(cfg.IMUGyroRange),
		AccelScale: regs.AccelFS(cfg.IMUAccelRange),
		FChoice:    regs.FChoice(cfg.IMUGyroFChoice),
		DLPF:       regs.DLPF(cfg.IMUDLPFConfig),
		AccelRate:  cfg.IMUAccelDLPF,
		MagControl: regs.Cntl1{
			Mode:     regs.MagMode(cfg.MagMode),
			Output16: cfg.MagOutput16Bit,
		},
		SampleRateDivider: cfg.IMUSampleRateDiv,
	}
}

// openIMU initializes the periph host drivers and brings the IMU up on the
// configured transport. The returned closer releases the bus.
func openIMU(cfg *config.Config) (*mpu9250.Device, func(), error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize periph: %w", err)
	}

	switch cfg.IMUTransport {
	case "i2c":
		bus, err := i2creg.Open(cfg.IMUI2CBus)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open I2C bus %q: %w", cfg.IMUI2CBus, err)
		}
		dev, err := mpu9250.NewI2C(bus, time.Sleep, driverConfig(cfg))
		if err != nil {
			bus.Close()
			return nil, nil, fmt.Errorf("imu bring-up (i2c): %w", err)
		}
		log.Printf("imu: initialized over I2C bus %q", cfg.IMUI2CBus)
		return dev, func() { bus.Close() }, nil

	case "spi":
		port, err := spireg.Open(cfg.IMUSPIDevice)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open SPI device %q: %w", cfg.IMUSPIDevice, err)
		}
		speed := physic.Frequency(cfg.IMUSPISpeedHz) * physic.Hertz
		if speed == 0 {
			speed = physic.MegaHertz
		}
		conn, err := port.Connect(speed, spi.Mode3, 8)
		if err != nil {
			port.Close()
			return nil, nil, fmt.Errorf("failed to connect SPI device %q: %w", cfg.IMUSPIDevice, err)
		}
		dev, err := mpu9250.NewSPI(conn, time.Sleep, driverConfig(cfg))
		if err != nil {
			port.Close()
			return nil, nil, fmt.Errorf("imu bring-up (spi): %w", err)
		}
		log.Printf("imu: initialized over SPI device %q at %s", cfg.IMUSPIDevice, speed)
		return dev, func() { port.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown IMU transport %q", cfg.IMUTransport)
	}
}
