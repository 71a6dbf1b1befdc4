package mpu9250

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ebelski/go-copter/motion"
	"github.com/ebelski/go-copter/mpu9250/regs"
)

// fakeConn emulates an MPU-9250 on SPI, including the internal I2C master:
// enabling slave 4 executes the proxied AK8963 access against a second
// register file and posts a status, and reads from the external sensor
// window are refreshed from the AK8963 when slave 0 is armed.
type fakeConn struct {
	t   *testing.T
	mpu [256]uint8
	ak  [256]uint8

	// slv4Status is posted to I2C_MST_STATUS when slave 4 fires. The
	// proxied access only executes when the DONE bit is included.
	slv4Status  uint8
	statusReads int

	writes []string
}

func newFakeConn(t *testing.T) *fakeConn {
	c := &fakeConn{t: t, slv4Status: regs.MstStatusSlv4Done}
	c.mpu[regs.WHO_AM_I] = 0x71
	c.ak[regs.WIA] = 0x48
	c.ak[regs.ASAX] = 128
	c.ak[regs.ASAY] = 128
	c.ak[regs.ASAZ] = 128
	return c
}

func (c *fakeConn) Tx(w, r []byte) error {
	if len(w) != len(r) || len(w) < 2 {
		c.t.Fatalf("Tx with unexpected framing: w=%d r=%d bytes", len(w), len(r))
	}
	reg := w[0] & 0x7F

	if w[0]&0x80 != 0 { // read, auto-incrementing
		for i := 1; i < len(r); i++ {
			addr := reg + uint8(i) - 1
			if addr == uint8(regs.I2C_MST_STATUS) {
				c.statusReads++
			}
			if c.extSensWindow(addr) {
				c.refreshExtSens()
			}
			r[i] = c.mpu[addr]
		}
		return nil
	}

	for i := 1; i < len(w); i++ {
		addr := reg + uint8(i) - 1
		c.writes = append(c.writes, fmt.Sprintf("w 0x%02X 0x%02X", addr, w[i]))
		c.mpu[addr] = w[i]
		if addr == uint8(regs.I2C_SLV4_CTRL) && w[i]&regs.I2CSlvEn != 0 {
			c.fireSlave4()
		}
	}
	return nil
}

func (c *fakeConn) fireSlave4() {
	if c.slv4Status&regs.MstStatusSlv4Done != 0 {
		slvAddr := c.mpu[regs.I2C_SLV4_ADDR]
		slvReg := c.mpu[regs.I2C_SLV4_REG]
		if slvAddr&regs.I2CSlvRead != 0 {
			c.mpu[regs.I2C_SLV4_DI] = c.ak[slvReg]
		} else {
			c.ak[slvReg] = c.mpu[regs.I2C_SLV4_DO]
		}
	}
	c.mpu[regs.I2C_MST_STATUS] = c.slv4Status
}

func (c *fakeConn) extSensWindow(addr uint8) bool {
	return addr >= uint8(regs.EXT_SENS_DATA_00) && addr <= uint8(regs.EXT_SENS_DATA_06)
}

// refreshExtSens models slave 0's auto-poll: the armed window is copied
// from the AK8963 into EXT_SENS_DATA.
func (c *fakeConn) refreshExtSens() {
	ctrl := c.mpu[regs.I2C_SLV0_CTRL]
	if ctrl&regs.I2CSlvEn == 0 {
		return
	}
	start := c.mpu[regs.I2C_SLV0_REG]
	for i := uint8(0); i < ctrl&regs.I2CSlvLenMask; i++ {
		c.mpu[uint8(regs.EXT_SENS_DATA_00)+i] = c.ak[start+i]
	}
}

func (c *fakeConn) setAK16LE(reg regs.AKReg, v int16) {
	c.ak[reg] = uint8(uint16(v))
	c.ak[int(reg)+1] = uint8(uint16(v) >> 8)
}

func noDelay(time.Duration) {}

func TestNewSPIBringUp(t *testing.T) {
	conn := newFakeConn(t)

	d, err := NewSPI(conn, noDelay, Config{})
	if err != nil {
		t.Fatalf("NewSPI(): %v", err)
	}
	if got := d.Handle().MagSensitivity; got != motion.Of[float32](1, 1, 1) {
		t.Errorf("MagSensitivity = %v, want (1, 1, 1)", got)
	}

	// The master comes up before the reset and again after it, with the
	// SPI-only guard the second time.
	var userCtrl []string
	for _, w := range conn.writes {
		if w == "w 0x6A 0x20" || w == "w 0x6A 0x30" {
			userCtrl = append(userCtrl, w)
		}
	}
	if len(userCtrl) != 2 || userCtrl[0] != "w 0x6A 0x20" || userCtrl[1] != "w 0x6A 0x30" {
		t.Errorf("USER_CTRL writes = %v, want [0x20 then 0x30]", userCtrl)
	}

	checks := []struct {
		name string
		reg  regs.MPUReg
		want uint8
	}{
		{"USER_CTRL", regs.USER_CTRL, 0x30},
		{"I2C_MST_CTRL", regs.I2C_MST_CTRL, 13},
		{"PWR_MGMT_1", regs.PWR_MGMT_1, 0x01},
		{"I2C_SLV0_ADDR", regs.I2C_SLV0_ADDR, 0x8C},
		{"I2C_SLV0_REG", regs.I2C_SLV0_REG, 0x03},
		{"I2C_SLV0_CTRL", regs.I2C_SLV0_CTRL, 0x87},
	}
	for _, c := range checks {
		if got := conn.mpu[c.reg]; got != c.want {
			t.Errorf("%s = 0x%02X, want 0x%02X", c.name, got, c.want)
		}
	}
}

func TestSPIMagReadUsesExtSensWindow(t *testing.T) {
	conn := newFakeConn(t)

	d, err := NewSPI(conn, noDelay, Config{
		MagControl: regs.Cntl1{Mode: regs.MagContinuous100Hz},
	})
	if err != nil {
		t.Fatalf("NewSPI(): %v", err)
	}

	conn.setAK16LE(regs.HXL, 8191)
	conn.setAK16LE(regs.HYL, 0)
	conn.setAK16LE(regs.HZL, -8191)

	got, err := d.Magnetometer()
	if err != nil {
		t.Fatalf("Magnetometer(): %v", err)
	}
	res := float32(10. * 4912. / 8190.)
	want := motion.Of(0, float32(8191)*res, float32(8191)*res)
	if got != want {
		t.Errorf("Magnetometer() = %v, want %v", got, want)
	}
}

func TestSlave4ReadTimeout(t *testing.T) {
	conn := newFakeConn(t)
	conn.slv4Status = 0 // transaction never resolves

	s := &spiMaster{conn: conn}
	_, err := s.readAK(regs.CNTL1)

	var terr *TimeoutError
	if !errors.As(err, &terr) {
		t.Fatalf("readAK(): %v, want *TimeoutError", err)
	}
	if terr.Attempts != 10000 {
		t.Errorf("Attempts = %d, want 10000", terr.Attempts)
	}
	if terr.Register != regs.CNTL1 {
		t.Errorf("Register = %v, want CNTL1", terr.Register)
	}
	if terr.Value != nil {
		t.Errorf("Value = %v, want nil for a read", terr.Value)
	}
	if conn.statusReads != 10000 {
		t.Errorf("status polled %d times, want exactly 10000", conn.statusReads)
	}
}

func TestSlave4WriteTimeout(t *testing.T) {
	conn := newFakeConn(t)
	conn.slv4Status = 0

	s := &spiMaster{conn: conn}
	err := s.writeAK(regs.CNTL1, 0x16)

	var terr *TimeoutError
	if !errors.As(err, &terr) {
		t.Fatalf("writeAK(): %v, want *TimeoutError", err)
	}
	if terr.Register != regs.CNTL1 {
		t.Errorf("Register = %v, want CNTL1", terr.Register)
	}
	if terr.Value == nil || *terr.Value != 0x16 {
		t.Errorf("Value = %v, want 0x16", terr.Value)
	}
}

func TestSlave4Nack(t *testing.T) {
	conn := newFakeConn(t)
	conn.slv4Status = regs.MstStatusSlv4Nack

	s := &spiMaster{conn: conn}
	if _, err := s.readAK(regs.WIA); !errors.Is(err, ErrNack) {
		t.Errorf("readAK(): %v, want ErrNack", err)
	}
}

func TestSlave4LostArbitration(t *testing.T) {
	conn := newFakeConn(t)
	conn.slv4Status = regs.MstStatusLostArb

	s := &spiMaster{conn: conn}
	if err := s.writeAK(regs.CNTL1, 0); !errors.Is(err, ErrLostArbitration) {
		t.Errorf("writeAK(): %v, want ErrLostArbitration", err)
	}
}

func TestSlave4DoneWinsOverFailureBits(t *testing.T) {
	conn := newFakeConn(t)
	conn.slv4Status = regs.MstStatusSlv4Done | regs.MstStatusSlv4Nack

	s := &spiMaster{conn: conn}
	got, err := s.readAK(regs.WIA)
	if err != nil {
		t.Fatalf("readAK(): %v, want DONE to win", err)
	}
	if got != 0x48 {
		t.Errorf("readAK(WIA) = 0x%02X, want 0x48", got)
	}
}

func TestSPIFraming(t *testing.T) {
	conn := newFakeConn(t)
	conn.mpu[regs.GYRO_CONFIG] = 0x18

	s := &spiMaster{conn: conn}
	got, err := s.readMPU(regs.GYRO_CONFIG)
	if err != nil {
		t.Fatalf("readMPU(): %v", err)
	}
	if got != 0x18 {
		t.Errorf("readMPU(GYRO_CONFIG) = 0x%02X, want 0x18", got)
	}

	if err := s.writeMPU(regs.SMPLRT_DIV, 9); err != nil {
		t.Fatalf("writeMPU(): %v", err)
	}
	if conn.mpu[regs.SMPLRT_DIV] != 9 {
		t.Errorf("SMPLRT_DIV = %d, want 9", conn.mpu[regs.SMPLRT_DIV])
	}

	var buf [6]byte
	conn.mpu[regs.ACCEL_XOUT_H] = 0x40
	if err := s.burstMPU(regs.ACCEL_XOUT_H, buf[:]); err != nil {
		t.Fatalf("burstMPU(): %v", err)
	}
	if buf[0] != 0x40 {
		t.Errorf("burst buf[0] = 0x%02X, want 0x40", buf[0])
	}
}

func TestReleaseSPIRejoin(t *testing.T) {
	conn := newFakeConn(t)

	d, err := NewSPI(conn, noDelay, Config{})
	if err != nil {
		t.Fatalf("NewSPI(): %v", err)
	}

	conn.setAK16LE(regs.HYL, 4096)
	before, err := d.Magnetometer()
	if err != nil {
		t.Fatalf("Magnetometer(): %v", err)
	}

	released, handle, ok := ReleaseSPI(d)
	if !ok {
		t.Fatal("ReleaseSPI() ok = false for a SPI device")
	}

	rejoined := FromSPIHandle(released, handle)
	after, err := rejoined.Magnetometer()
	if err != nil {
		t.Fatalf("Magnetometer() after rejoin: %v", err)
	}
	if after != before {
		t.Errorf("reading after rejoin = %v, want %v", after, before)
	}

	if _, _, ok := ReleaseI2C(d); ok {
		t.Error("ReleaseI2C() ok = true for a SPI device")
	}
}
