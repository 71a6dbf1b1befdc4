package regs

import "fmt"

// AKAddr is the AK8963 magnetometer's 7-bit I2C address.
const AKAddr uint16 = 0x0C

// AKWhoAmI is the value the AK8963 reports in WIA.
const AKWhoAmI uint8 = 0x48

// AKReg identifies a register on the AK8963 die. The value is the register's
// 7-bit address. AKReg and MPUReg are distinct types so a magnetometer
// register can never be handed to an MPU access path.
type AKReg uint8

// AK8963 register addresses.
const (
	WIA   AKReg = 0x00
	INFO  AKReg = 0x01
	ST1   AKReg = 0x02
	HXL   AKReg = 0x03
	HXH   AKReg = 0x04
	HYL   AKReg = 0x05
	HYH   AKReg = 0x06
	HZL   AKReg = 0x07
	HZH   AKReg = 0x08
	ST2   AKReg = 0x09
	CNTL1 AKReg = 0x0A
	CNTL2 AKReg = 0x0B
	ASTC  AKReg = 0x0C
	ASAX  AKReg = 0x10
	ASAY  AKReg = 0x11
	ASAZ  AKReg = 0x12
)

func (r AKReg) String() string {
	if name, ok := akRegNames[r]; ok {
		return name
	}
	return fmt.Sprintf("AK(0x%02X)", uint8(r))
}

var akRegNames = map[AKReg]string{
	WIA:   "WIA",
	INFO:  "INFO",
	ST1:   "ST1",
	HXL:   "HXL",
	HXH:   "HXH",
	HYL:   "HYL",
	HYH:   "HYH",
	HZL:   "HZL",
	HZH:   "HZH",
	ST2:   "ST2",
	CNTL1: "CNTL1",
	CNTL2: "CNTL2",
	ASTC:  "ASTC",
	ASAX:  "ASAX",
	ASAY:  "ASAY",
	ASAZ:  "ASAZ",
}

// ST1 bits.
const (
	St1Drdy uint8 = 1 << 0 // data ready
	St1Dor  uint8 = 1 << 1 // data overrun
)

// ST2 bits.
const (
	St2Hofl uint8 = 1 << 3 // magnetic overflow
	St2Bitm uint8 = 1 << 4 // output was 16-bit
)

// Cntl1Output16 is the CNTL1 bit selecting 16-bit output.
const Cntl1Output16 uint8 = 1 << 6

// Cntl2SoftReset is the CNTL2 byte that resets the AK8963.
const Cntl2SoftReset uint8 = 1 << 0

// MagMode is an AK8963 operating mode (CNTL1 bits 3..0).
type MagMode uint8

const (
	MagPowerDown       MagMode = 0b0000
	MagSingle          MagMode = 0b0001
	MagContinuous8Hz   MagMode = 0b0010
	MagExternalTrigger MagMode = 0b0100
	MagContinuous100Hz MagMode = 0b0110
	MagSelfTest        MagMode = 0b1000
	MagFuseROM         MagMode = 0b1111
)

func (m MagMode) valid() bool {
	switch m {
	case MagPowerDown, MagSingle, MagContinuous8Hz, MagExternalTrigger,
		MagContinuous100Hz, MagSelfTest, MagFuseROM:
		return true
	}
	return false
}

func (m MagMode) String() string {
	switch m {
	case MagPowerDown:
		return "power-down"
	case MagSingle:
		return "single"
	case MagContinuous8Hz:
		return "continuous-8Hz"
	case MagExternalTrigger:
		return "external-trigger"
	case MagContinuous100Hz:
		return "continuous-100Hz"
	case MagSelfTest:
		return "self-test"
	case MagFuseROM:
		return "fuse-ROM"
	}
	return fmt.Sprintf("MagMode(0b%04b)", uint8(m))
}

// Cntl1 is the composite AK8963 CNTL1 register: operating mode plus output
// resolution.
type Cntl1 struct {
	Mode     MagMode
	Output16 bool // 16-bit output when set, 14-bit when clear
}

// Encode packs the register into its 8-bit form.
func (c Cntl1) Encode() uint8 {
	b := uint8(c.Mode) & 0x0F
	if c.Output16 {
		b |= Cntl1Output16
	}
	return b
}

// DecodeCntl1 unpacks b. Mode codes the AK8963 does not define are rejected
// rather than silently aliased.
func DecodeCntl1(b uint8) (Cntl1, error) {
	m := MagMode(b & 0x0F)
	if !m.valid() {
		return Cntl1{}, fmt.Errorf("regs: CNTL1 mode 0b%04b not defined", uint8(m))
	}
	return Cntl1{Mode: m, Output16: b&Cntl1Output16 != 0}, nil
}
