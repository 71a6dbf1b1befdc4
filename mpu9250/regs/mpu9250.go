// Package regs describes every MPU-9250 and AK8963 register the driver
// touches: addresses, bit flags, and the 8-bit codecs for composite
// registers.
//
// Register names follow the Invensense and Asahi Kasei datasheets.
package regs

import "fmt"

// MPUAddr is the MPU-9250's 7-bit I2C address.
const MPUAddr uint16 = 0x68

// MPUWhoAmI lists the WHO_AM_I values accepted for the MPU-9250 die.
// 0x71 is the MPU-9250 proper, 0x73 the MPU-9255 variant.
var MPUWhoAmI = []uint8{0x71, 0x73}

// MPUReg identifies a register on the MPU-9250 die. The value is the
// register's 7-bit address.
type MPUReg uint8

// MPU-9250 register addresses.
const (
	SMPLRT_DIV     MPUReg = 0x19
	CONFIG         MPUReg = 0x1A
	GYRO_CONFIG    MPUReg = 0x1B
	ACCEL_CONFIG   MPUReg = 0x1C
	ACCEL_CONFIG_2 MPUReg = 0x1D
	LP_ACCEL_ODR   MPUReg = 0x1E

	FIFO_EN       MPUReg = 0x23
	I2C_MST_CTRL  MPUReg = 0x24
	I2C_SLV0_ADDR MPUReg = 0x25
	I2C_SLV0_REG  MPUReg = 0x26
	I2C_SLV0_CTRL MPUReg = 0x27
	I2C_SLV4_ADDR MPUReg = 0x31
	I2C_SLV4_REG  MPUReg = 0x32
	I2C_SLV4_DO   MPUReg = 0x33
	I2C_SLV4_CTRL MPUReg = 0x34
	I2C_SLV4_DI   MPUReg = 0x35
	I2C_MST_STATUS MPUReg = 0x36

	INT_PIN_CFG MPUReg = 0x37
	INT_ENABLE  MPUReg = 0x38
	INT_STATUS  MPUReg = 0x3A

	ACCEL_XOUT_H MPUReg = 0x3B
	ACCEL_XOUT_L MPUReg = 0x3C
	ACCEL_YOUT_H MPUReg = 0x3D
	ACCEL_YOUT_L MPUReg = 0x3E
	ACCEL_ZOUT_H MPUReg = 0x3F
	ACCEL_ZOUT_L MPUReg = 0x40
	TEMP_OUT_H   MPUReg = 0x41
	TEMP_OUT_L   MPUReg = 0x42
	GYRO_XOUT_H  MPUReg = 0x43
	GYRO_XOUT_L  MPUReg = 0x44
	GYRO_YOUT_H  MPUReg = 0x45
	GYRO_YOUT_L  MPUReg = 0x46
	GYRO_ZOUT_H  MPUReg = 0x47
	GYRO_ZOUT_L  MPUReg = 0x48

	EXT_SENS_DATA_00 MPUReg = 0x49
	EXT_SENS_DATA_01 MPUReg = 0x4A
	EXT_SENS_DATA_02 MPUReg = 0x4B
	EXT_SENS_DATA_03 MPUReg = 0x4C
	EXT_SENS_DATA_04 MPUReg = 0x4D
	EXT_SENS_DATA_05 MPUReg = 0x4E
	EXT_SENS_DATA_06 MPUReg = 0x4F

	USER_CTRL  MPUReg = 0x6A
	PWR_MGMT_1 MPUReg = 0x6B
	PWR_MGMT_2 MPUReg = 0x6C

	WHO_AM_I MPUReg = 0x75
)

func (r MPUReg) String() string {
	if name, ok := mpuRegNames[r]; ok {
		return name
	}
	return fmt.Sprintf("MPU(0x%02X)", uint8(r))
}

var mpuRegNames = map[MPUReg]string{
	SMPLRT_DIV:       "SMPLRT_DIV",
	CONFIG:           "CONFIG",
	GYRO_CONFIG:      "GYRO_CONFIG",
	ACCEL_CONFIG:     "ACCEL_CONFIG",
	ACCEL_CONFIG_2:   "ACCEL_CONFIG_2",
	LP_ACCEL_ODR:     "LP_ACCEL_ODR",
	FIFO_EN:          "FIFO_EN",
	I2C_MST_CTRL:     "I2C_MST_CTRL",
	I2C_SLV0_ADDR:    "I2C_SLV0_ADDR",
	I2C_SLV0_REG:     "I2C_SLV0_REG",
	I2C_SLV0_CTRL:    "I2C_SLV0_CTRL",
	I2C_SLV4_ADDR:    "I2C_SLV4_ADDR",
	I2C_SLV4_REG:     "I2C_SLV4_REG",
	I2C_SLV4_DO:      "I2C_SLV4_DO",
	I2C_SLV4_CTRL:    "I2C_SLV4_CTRL",
	I2C_SLV4_DI:      "I2C_SLV4_DI",
	I2C_MST_STATUS:   "I2C_MST_STATUS",
	INT_PIN_CFG:      "INT_PIN_CFG",
	INT_ENABLE:       "INT_ENABLE",
	INT_STATUS:       "INT_STATUS",
	ACCEL_XOUT_H:     "ACCEL_XOUT_H",
	TEMP_OUT_H:       "TEMP_OUT_H",
	GYRO_XOUT_H:      "GYRO_XOUT_H",
	EXT_SENS_DATA_00: "EXT_SENS_DATA_00",
	USER_CTRL:        "USER_CTRL",
	PWR_MGMT_1:       "PWR_MGMT_1",
	PWR_MGMT_2:       "PWR_MGMT_2",
	WHO_AM_I:         "WHO_AM_I",
}

// I2CSlvRead is bit 7 of the I2C_SLVx_ADDR registers: set for a read
// transaction, clear for a write.
const I2CSlvRead uint8 = 1 << 7

// USER_CTRL bits.
const (
	UserCtrlFIFOEn     uint8 = 1 << 6
	UserCtrlI2CMstEn   uint8 = 1 << 5
	UserCtrlI2CIfDis   uint8 = 1 << 4
	UserCtrlFIFORst    uint8 = 1 << 2
	UserCtrlI2CMstRst  uint8 = 1 << 1
	UserCtrlSigCondRst uint8 = 1 << 0
)

// INT_PIN_CFG bits. Only BYPASS_EN matters to the driver: it electrically
// joins the AK8963 to the external I2C bus.
const (
	IntPinActl        uint8 = 1 << 7
	IntPinOpen        uint8 = 1 << 6
	IntPinLatchEn     uint8 = 1 << 5
	IntPinAnyRdClear  uint8 = 1 << 4
	IntPinActlFsync   uint8 = 1 << 3
	IntPinFsyncModeEn uint8 = 1 << 2
	IntPinBypassEn    uint8 = 1 << 1
)

// I2C_MST_CTRL clock divider codes (low nibble).
const (
	// I2CMstClk400kHz runs the internal I2C master at 400 kHz, the speed
	// the AK8963 access path assumes.
	I2CMstClk400kHz uint8 = 13
)

// I2C_MST_STATUS bits the slave-4 arbitration loop inspects.
const (
	MstStatusSlv4Done uint8 = 1 << 6
	MstStatusLostArb  uint8 = 1 << 5
	MstStatusSlv4Nack uint8 = 1 << 4
)

// I2C_SLVx_CTRL bits. For slaves 0 through 3 the low nibble is the transfer
// length in bytes.
const (
	I2CSlvEn      uint8 = 1 << 7
	I2CSlvByteSw  uint8 = 1 << 6
	I2CSlvRegDis  uint8 = 1 << 5
	I2CSlvGrp     uint8 = 1 << 4
	I2CSlvLenMask uint8 = 0x0F
)

// PWR_MGMT_1 flag bits (7..3). The low three bits select the clock source.
const (
	PwrMgmt1HReset      uint8 = 1 << 7
	PwrMgmt1Sleep       uint8 = 1 << 6
	PwrMgmt1Cycle       uint8 = 1 << 5
	PwrMgmt1GyroStandby uint8 = 1 << 4
	PwrMgmt1PdPtat      uint8 = 1 << 3
)

// ClockSel selects the MPU's clock source (PWR_MGMT_1 bits 2..0).
type ClockSel uint8

const (
	// ClockInternal is the internal 20 MHz oscillator.
	ClockInternal ClockSel = 0
	// ClockAuto selects the best available source, preferring the gyro PLL.
	ClockAuto ClockSel = 1
	// ClockStopped stops the clock and holds timing in reset.
	ClockStopped ClockSel = 7
)

// PwrMgmt1 is the composite PWR_MGMT_1 register.
type PwrMgmt1 struct {
	Flags uint8 // H_RESET | SLEEP | CYCLE | GYRO_STANDBY | PD_PTAT
	Clock ClockSel
}

// PwrMgmt1Reset is the byte that commands a device reset. The clock bits are
// don't-care during reset.
func PwrMgmt1Reset() uint8 { return PwrMgmt1HReset }

// PwrMgmt1Clock is the byte that selects a clock source with no flags set.
func PwrMgmt1Clock(c ClockSel) uint8 { return PwrMgmt1{Clock: c}.Encode() }

// Encode packs the register into its 8-bit form.
func (p PwrMgmt1) Encode() uint8 {
	return p.Flags&0xF8 | uint8(p.Clock)&0x07
}

// DecodePwrMgmt1 unpacks b. Clock codes outside {0, 1, 7} have no
// representation here and are rejected.
func DecodePwrMgmt1(b uint8) (PwrMgmt1, error) {
	c := ClockSel(b & 0x07)
	switch c {
	case ClockInternal, ClockAuto, ClockStopped:
	default:
		return PwrMgmt1{}, fmt.Errorf("regs: PWR_MGMT_1 clock select %d not representable", c)
	}
	return PwrMgmt1{Flags: b & 0xF8, Clock: c}, nil
}

// GyroFS selects the gyroscope full-scale range (GYRO_CONFIG bits 4..3).
type GyroFS uint8

const (
	GyroFS250DPS GyroFS = iota
	GyroFS500DPS
	GyroFS1000DPS
	GyroFS2000DPS
)

// DPS returns the full-scale range in degrees per second.
func (f GyroFS) DPS() float32 {
	return [...]float32{250, 500, 1000, 2000}[f&0x03]
}

// AccelFS selects the accelerometer full-scale range (ACCEL_CONFIG bits 4..3).
type AccelFS uint8

const (
	AccelFS2G AccelFS = iota
	AccelFS4G
	AccelFS8G
	AccelFS16G
)

// G returns the full-scale range in multiples of gravity.
func (f AccelFS) G() float32 {
	return [...]float32{2, 4, 8, 16}[f&0x03]
}

// FChoice selects between the gyro DLPF and the bypass bandwidths
// (GYRO_CONFIG bits 1..0, inverted FCHOICE_B in the datasheet).
type FChoice uint8

const (
	// FChoiceDLPF enables the digital low-pass filter selected by CONFIG.
	FChoiceDLPF FChoice = 0b00
	// FChoiceFX0 bypasses the DLPF for an 8800 Hz gyro bandwidth.
	FChoiceFX0 FChoice = 0b01
	// FChoiceF01 bypasses the DLPF for a 3600 Hz gyro bandwidth.
	FChoiceF01 FChoice = 0b10
)

// DLPF selects a digital low-pass filter band (CONFIG bits 2..0).
type DLPF uint8

// GyroConfig is the composite GYRO_CONFIG register.
type GyroConfig struct {
	SelfTest  uint8 // XGYRO_CTEN | YGYRO_CTEN | ZGYRO_CTEN (bits 7..5)
	FullScale GyroFS
	FChoice   FChoice
}

// Encode packs the register into its 8-bit form.
func (c GyroConfig) Encode() uint8 {
	return c.SelfTest&0xE0 | uint8(c.FullScale&0x03)<<3 | uint8(c.FChoice&0x03)
}

// DecodeGyroConfig unpacks b. The datasheet treats FCHOICE_B 0b11 the same
// as 0b01; that aliasing is preserved.
func DecodeGyroConfig(b uint8) GyroConfig {
	fc := FChoice(b & 0x03)
	if fc == 0b11 {
		fc = FChoiceFX0
	}
	return GyroConfig{
		SelfTest:  b & 0xE0,
		FullScale: GyroFS(b >> 3 & 0x03),
		FChoice:   fc,
	}
}

// AccelConfig is the composite ACCEL_CONFIG register.
type AccelConfig struct {
	SelfTest  uint8 // AX_ST_EN | AY_ST_EN | AZ_ST_EN (bits 7..5)
	FullScale AccelFS
}

// Encode packs the register into its 8-bit form.
func (c AccelConfig) Encode() uint8 {
	return c.SelfTest&0xE0 | uint8(c.FullScale&0x03)<<3
}

// DecodeAccelConfig unpacks b.
func DecodeAccelConfig(b uint8) AccelConfig {
	return AccelConfig{
		SelfTest:  b & 0xE0,
		FullScale: AccelFS(b >> 3 & 0x03),
	}
}

// MPUConfig is the composite CONFIG register.
type MPUConfig struct {
	FIFOMode bool  // block FIFO writes when full
	ExtSync  uint8 // EXT_SYNC_SET (bits 5..3)
	DLPF     DLPF
}

// Encode packs the register into its 8-bit form.
func (c MPUConfig) Encode() uint8 {
	var b uint8
	if c.FIFOMode {
		b |= 1 << 6
	}
	return b | c.ExtSync&0x07<<3 | uint8(c.DLPF)&0x07
}

// DecodeMPUConfig unpacks b.
func DecodeMPUConfig(b uint8) MPUConfig {
	return MPUConfig{
		FIFOMode: b&(1<<6) != 0,
		ExtSync:  b >> 3 & 0x07,
		DLPF:     DLPF(b & 0x07),
	}
}
