// Package sensors adapts the MPU-9250 driver to the application: it owns
// the live device, serializes access between the producer loop and the
// register-debug console, and shapes readings into imu.Sample.
package sensors

import (
	"fmt"
	"sync"

	"github.com/ebelski/go-copter/internal/imu"
	"github.com/ebelski/go-copter/mpu9250"
	"github.com/ebelski/go-copter/mpu9250/regs"
)

// IMU wraps a live device. All methods are safe for concurrent use; the
// driver itself is single-threaded, so every access goes through one
// mutex.
type IMU struct {
	mu  sync.Mutex
	dev *mpu9250.Device
}

// NewIMU wraps an already brought-up device.
func NewIMU(dev *mpu9250.Device) *IMU {
	return &IMU{dev: dev}
}

// Next reads one full MARG sample plus die temperature.
func (s *IMU) Next() (imu.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accel, gyro, mag, err := s.dev.MARG()
	if err != nil {
		return imu.Sample{}, fmt.Errorf("marg read: %w", err)
	}
	temp, err := s.dev.Temperature()
	if err != nil {
		return imu.Sample{}, fmt.Errorf("temperature read: %w", err)
	}
	return imu.Sample{
		Ax: accel.X, Ay: accel.Y, Az: accel.Z,
		Gx: gyro.X, Gy: gyro.Y, Gz: gyro.Z,
		Mx: mag.X, My: mag.Y, Mz: mag.Z,
		Temp: temp,
	}, nil
}

var _ imu.Source = (*IMU)(nil)

// ReadRegister reads one MPU-9250 register.
func (s *IMU) ReadRegister(addr byte) (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.ReadMPURegister(regs.MPUReg(addr))
}

// WriteRegister writes one MPU-9250 register.
func (s *IMU) WriteRegister(addr, value byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.WriteMPURegister(regs.MPUReg(addr), value)
}

// ReadAK8963Register reads one AK8963 register. On the SPI transport this
// rides the internal I2C master and can take a while.
func (s *IMU) ReadAK8963Register(addr byte) (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.ReadAKRegister(regs.AKReg(addr))
}

// WriteAK8963Register writes one AK8963 register.
func (s *IMU) WriteAK8963Register(addr, value byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.WriteAKRegister(regs.AKReg(addr), value)
}

// ReadAllRegisters reads every cataloged MPU-9250 register.
func (s *IMU) ReadAllRegisters() (map[byte]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[byte]byte)
	for _, info := range regs.MPUCatalog() {
		value, err := s.dev.ReadMPURegister(regs.MPUReg(info.Address))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", info.Name, err)
		}
		out[info.Address] = value
	}
	return out, nil
}

// ReadAllAK8963Registers reads every cataloged AK8963 register.
func (s *IMU) ReadAllAK8963Registers() (map[byte]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[byte]byte)
	for _, info := range regs.AKCatalog() {
		value, err := s.dev.ReadAKRegister(regs.AKReg(info.Address))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", info.Name, err)
		}
		out[info.Address] = value
	}
	return out, nil
}

// WhoAmI reads both identity registers.
func (s *IMU) WhoAmI() (mpuID, akID byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mpuID, err = s.dev.WhoAmIMPU(); err != nil {
		return 0, 0, err
	}
	if akID, err = s.dev.WhoAmIAK(); err != nil {
		return 0, 0, err
	}
	return mpuID, akID, nil
}

// Handle returns the device's cached scale factors.
func (s *IMU) Handle() mpu9250.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.Handle()
}
