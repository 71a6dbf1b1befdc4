package mpu9250

import (
	"fmt"
	"time"

	"github.com/ebelski/go-copter/mpu9250/regs"
)

// Conn is a full-duplex SPI connection. periph.io's spi.Conn satisfies it.
type Conn interface {
	// Tx does a single transaction writing w while reading len(r) bytes.
	Tx(w, r []byte) error
}

// slv4MaxPolls bounds the I2C_MST_STATUS busy-wait for one slave-4
// transaction at the 400 kHz auxiliary bus speed.
const slv4MaxPolls = 10000

// spiMaster reaches the MPU through its SPI register window. The AK8963
// has no SPI presence at all; its registers are proxied one byte at a time
// through the MPU's internal I2C master on the slave-4 channel, and its
// sample output is copied into EXT_SENS_DATA_00..06 by the slave-0 channel
// armed at bring-up.
type spiMaster struct {
	conn Conn
}

// Every frame starts with a command byte: the register address, with the
// MSB set for a read. Payload bytes follow, auto-incrementing the address.
func (s *spiMaster) readMPU(reg regs.MPUReg) (uint8, error) {
	w := [2]byte{uint8(reg) | 0x80, 0}
	var r [2]byte
	if err := s.conn.Tx(w[:], r[:]); err != nil {
		return 0, fmt.Errorf("mpu9250: read %v: %w", reg, err)
	}
	return r[1], nil
}

func (s *spiMaster) writeMPU(reg regs.MPUReg, value uint8) error {
	w := [2]byte{uint8(reg) & 0x7F, value}
	var r [2]byte
	if err := s.conn.Tx(w[:], r[:]); err != nil {
		return fmt.Errorf("mpu9250: write %v: %w", reg, err)
	}
	return nil
}

func (s *spiMaster) burstMPU(start regs.MPUReg, buf []byte) error {
	w := make([]byte, len(buf)+1)
	r := make([]byte, len(buf)+1)
	w[0] = uint8(start) | 0x80
	if err := s.conn.Tx(w, r); err != nil {
		return fmt.Errorf("mpu9250: burst read %v+%d: %w", start, len(buf), err)
	}
	copy(buf, r[1:])
	return nil
}

func (s *spiMaster) readAK(reg regs.AKReg) (uint8, error) {
	if err := s.writeMPU(regs.I2C_SLV4_ADDR, uint8(regs.AKAddr)|regs.I2CSlvRead); err != nil {
		return 0, err
	}
	if err := s.writeMPU(regs.I2C_SLV4_REG, uint8(reg)); err != nil {
		return 0, err
	}
	if err := s.writeMPU(regs.I2C_SLV4_CTRL, regs.I2CSlvEn); err != nil {
		return 0, err
	}
	if err := s.waitSlave4(reg, nil); err != nil {
		return 0, err
	}
	return s.readMPU(regs.I2C_SLV4_DI)
}

func (s *spiMaster) writeAK(reg regs.AKReg, value uint8) error {
	if err := s.writeMPU(regs.I2C_SLV4_ADDR, uint8(regs.AKAddr)); err != nil {
		return err
	}
	if err := s.writeMPU(regs.I2C_SLV4_REG, uint8(reg)); err != nil {
		return err
	}
	if err := s.writeMPU(regs.I2C_SLV4_DO, value); err != nil {
		return err
	}
	if err := s.writeMPU(regs.I2C_SLV4_CTRL, regs.I2CSlvEn); err != nil {
		return err
	}
	return s.waitSlave4(reg, &value)
}

// waitSlave4 busy-polls I2C_MST_STATUS until the armed slave-4 transaction
// resolves. DONE wins over the failure bits when several are set in the
// same status read.
func (s *spiMaster) waitSlave4(reg regs.AKReg, value *uint8) error {
	for i := 0; i < slv4MaxPolls; i++ {
		status, err := s.readMPU(regs.I2C_MST_STATUS)
		if err != nil {
			return err
		}
		switch {
		case status&regs.MstStatusSlv4Done != 0:
			return nil
		case status&regs.MstStatusSlv4Nack != 0:
			return ErrNack
		case status&regs.MstStatusLostArb != 0:
			return ErrLostArbitration
		}
	}
	return &TimeoutError{Attempts: slv4MaxPolls, Register: reg, Value: value}
}

// readMag picks up the six data bytes slave 0 deposited in the external
// sensor window. Slave 0's window is 7 bytes wide so that ST2 is fetched
// from the AK8963 on every cycle, releasing the next measurement; the
// status byte itself is not returned here.
func (s *spiMaster) readMag(buf []byte) error {
	return s.burstMPU(regs.EXT_SENS_DATA_00, buf[:6])
}

// NewSPI brings up an MPU-9250 on a SPI connection.
//
// The sequence enables the internal I2C master early (the only route to
// the AK8963), quiesces both dies, resets the MPU, re-establishes the
// master configuration the reset cleared, verifies both identities,
// captures the fuse sensitivities, applies cfg, and finally arms slave 0
// to copy the AK8963's output into the external sensor window every MPU
// sample cycle. The order is load-bearing; any failure aborts and no
// Device is returned.
//
// The slave-0 channel belongs to the driver for the device's lifetime;
// callers must not reprogram it.
func NewSPI(conn Conn, delay Delay, cfg Config) (*Device, error) {
	t := &spiMaster{conn: conn}

	// The master must be running before the AK8963 can be quiesced.
	if err := t.writeMPU(regs.USER_CTRL, regs.UserCtrlI2CMstEn); err != nil {
		return nil, err
	}
	if err := t.writeMPU(regs.I2C_MST_CTRL, regs.I2CMstClk400kHz); err != nil {
		return nil, err
	}
	if err := t.writeAK(regs.CNTL1, regs.Cntl1{Mode: regs.MagPowerDown}.Encode()); err != nil {
		return nil, err
	}

	if err := t.writeMPU(regs.PWR_MGMT_1, regs.PwrMgmt1Reset()); err != nil {
		return nil, err
	}
	delay(10 * time.Millisecond)

	// The reset cleared USER_CTRL and I2C_MST_CTRL. I2C_IF_DIS keeps the
	// die from interpreting SPI traffic as I2C.
	if err := t.writeMPU(regs.USER_CTRL, regs.UserCtrlI2CMstEn|regs.UserCtrlI2CIfDis); err != nil {
		return nil, err
	}
	if err := t.writeMPU(regs.I2C_MST_CTRL, regs.I2CMstClk400kHz); err != nil {
		return nil, err
	}

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

	// Arm slave 0: 7-byte auto-poll of HXL..ST2 into EXT_SENS_DATA_00..06.
	if err := t.writeMPU(regs.I2C_SLV0_ADDR, uint8(regs.AKAddr)|regs.I2CSlvRead); err != nil {
		return nil, err
	}
	if err := t.writeMPU(regs.I2C_SLV0_REG, uint8(regs.HXL)); err != nil {
		return nil, err
	}
	if err := t.writeMPU(regs.I2C_SLV0_CTRL, regs.I2CSlvEn|7); err != nil {
		return nil, err
	}

	return &Device{t: t, handle: newHandle(cfg, sensitivity)}, nil
}

// ReleaseSPI splits the device back into its connection and handle. ok is
// false if d was not built on the SPI transport. The device must not be
// used after release.
func ReleaseSPI(d *Device) (conn Conn, handle Handle, ok bool) {
	s, isSPI := d.t.(*spiMaster)
	if !isSPI {
		return nil, Handle{}, false
	}
	return s.conn, d.handle, true
}

// FromSPIHandle reforms a device from a connection and a handle captured
// by ReleaseSPI, skipping bring-up. The caller is responsible for pairing
// the handle with the physical device it came from.
func FromSPIHandle(conn Conn, handle Handle) *Device {
	return &Device{t: &spiMaster{conn: conn}, handle: handle}
}
