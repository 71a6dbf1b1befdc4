package regs

// Info is display metadata for one register: name, access type, and bit
// field breakdown. The register-debug console renders the catalog next to
// live values.
type Info struct {
	Address   uint8      `json:"address"`
	Name      string     `json:"name"`
	Desc      string     `json:"description"`
	Access    string     `json:"access"` // "R" or "RW"
	Default   uint8      `json:"default"`
	BitFields []BitField `json:"bit_fields,omitempty"`
}

// BitField describes one field within a register.
type BitField struct {
	Bits   string `json:"bits"` // "7:0", "4:3", "1"
	Name   string `json:"name"`
	Desc   string `json:"description"`
	Values string `json:"values,omitempty"`
}

// MPUCatalog returns metadata for the MPU-9250 registers the console exposes.
func MPUCatalog() []Info {
	return []Info{
		{Address: uint8(SMPLRT_DIV), Name: "SMPLRT_DIV", Desc: "Sample Rate Divider", Access: "RW",
			BitFields: []BitField{
				{Bits: "7:0", Name: "SMPLRT_DIV", Desc: "Sample Rate = Internal_Sample_Rate / (1 + SMPLRT_DIV)", Values: "0-255"},
			}},
		{Address: uint8(CONFIG), Name: "CONFIG", Desc: "Configuration (DLPF)", Access: "RW",
			BitFields: []BitField{
				{Bits: "6", Name: "FIFO_MODE", Desc: "FIFO mode", Values: "0=Overwrite, 1=Block new data"},
				{Bits: "5:3", Name: "EXT_SYNC_SET", Desc: "External FSYNC pin sampling", Values: "0=Disabled"},
				{Bits: "2:0", Name: "DLPF_CFG", Desc: "Digital Low Pass Filter", Values: "0=250Hz, 1=184Hz, 2=92Hz, 3=41Hz, 4=20Hz, 5=10Hz, 6=5Hz, 7=3600Hz"},
			}},
		{Address: uint8(GYRO_CONFIG), Name: "GYRO_CONFIG", Desc: "Gyroscope Configuration", Access: "RW",
			BitFields: []BitField{
				{Bits: "7", Name: "XGYRO_Cten", Desc: "X Gyro self-test", Values: "0=Disabled, 1=Enabled"},
				{Bits: "6", Name: "YGYRO_Cten", Desc: "Y Gyro self-test", Values: "0=Disabled, 1=Enabled"},
				{Bits: "5", Name: "ZGYRO_Cten", Desc: "Z Gyro self-test", Values: "0=Disabled, 1=Enabled"},
				{Bits: "4:3", Name: "GYRO_FS_SEL", Desc: "Gyro Full Scale Range", Values: "0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s"},
				{Bits: "1:0", Name: "Fchoice_b", Desc: "Gyro DLPF bypass", Values: "0=DLPF enabled"},
			}},
		{Address: uint8(ACCEL_CONFIG), Name: "ACCEL_CONFIG", Desc: "Accelerometer Configuration", Access: "RW",
			BitFields: []BitField{
				{Bits: "7", Name: "ax_st_en", Desc: "X Accel self-test", Values: "0=Disabled, 1=Enabled"},
				{Bits: "6", Name: "ay_st_en", Desc: "Y Accel self-test", Values: "0=Disabled, 1=Enabled"},
				{Bits: "5", Name: "az_st_en", Desc: "Z Accel self-test", Values: "0=Disabled, 1=Enabled"},
				{Bits: "4:3", Name: "ACCEL_FS_SEL", Desc: "Accel Full Scale Range", Values: "0=±2g, 1=±4g, 2=±8g, 3=±16g"},
			}},
		{Address: uint8(ACCEL_CONFIG_2), Name: "ACCEL_CONFIG_2", Desc: "Accelerometer Configuration 2", Access: "RW",
			BitFields: []BitField{
				{Bits: "3", Name: "accel_fchoice_b", Desc: "Accel DLPF bypass", Values: "0=DLPF enabled, 1=Bypass"},
				{Bits: "2:0", Name: "A_DLPFCFG", Desc: "Accel DLPF Config", Values: "0=460Hz, 1=184Hz, 2=92Hz, 3=41Hz, 4=20Hz, 5=10Hz, 6=5Hz, 7=460Hz"},
			}},
		{Address: uint8(LP_ACCEL_ODR), Name: "LP_ACCEL_ODR", Desc: "Low Power Accelerometer ODR Control", Access: "RW",
			BitFields: []BitField{
				{Bits: "3:0", Name: "Lposc_clksel", Desc: "Low Power Accel Output Data Rate", Values: "0=0.24Hz ... 11=500Hz"},
			}},

		{Address: uint8(FIFO_EN), Name: "FIFO_EN", Desc: "FIFO Enable", Access: "RW"},
		{Address: uint8(I2C_MST_CTRL), Name: "I2C_MST_CTRL", Desc: "I2C Master Control", Access: "RW",
			BitFields: []BitField{
				{Bits: "7", Name: "MULT_MST_EN", Desc: "Multi-master enable", Values: "0=Disabled, 1=Enabled"},
				{Bits: "4", Name: "WAIT_FOR_ES", Desc: "Wait for external sensor", Values: "0=Disabled, 1=Enabled"},
				{Bits: "3:0", Name: "I2C_MST_CLK", Desc: "I2C Master clock speed", Values: "13=400kHz"},
			}},
		{Address: uint8(I2C_SLV0_ADDR), Name: "I2C_SLV0_ADDR", Desc: "I2C Slave 0 Address", Access: "RW",
			BitFields: []BitField{
				{Bits: "7", Name: "I2C_SLV0_RNW", Desc: "Read/Write mode", Values: "0=Write, 1=Read"},
				{Bits: "6:0", Name: "I2C_ID_0", Desc: "I2C slave address", Values: "7-bit address"},
			}},
		{Address: uint8(I2C_SLV0_REG), Name: "I2C_SLV0_REG", Desc: "I2C Slave 0 Register", Access: "RW"},
		{Address: uint8(I2C_SLV0_CTRL), Name: "I2C_SLV0_CTRL", Desc: "I2C Slave 0 Control", Access: "RW",
			BitFields: []BitField{
				{Bits: "7", Name: "I2C_SLV0_EN", Desc: "Enable reading", Values: "0=Disabled, 1=Enabled"},
				{Bits: "6", Name: "I2C_SLV0_BYTE_SW", Desc: "Byte swap", Values: "0=No swap, 1=Swap"},
				{Bits: "5", Name: "I2C_SLV0_REG_DIS", Desc: "Register disable"},
				{Bits: "4", Name: "I2C_SLV0_GRP", Desc: "Group registers"},
				{Bits: "3:0", Name: "I2C_SLV0_LENG", Desc: "Number of bytes to read", Values: "0-15"},
			}},
		{Address: uint8(I2C_SLV4_ADDR), Name: "I2C_SLV4_ADDR", Desc: "I2C Slave 4 Address", Access: "RW",
			BitFields: []BitField{
				{Bits: "7", Name: "I2C_SLV4_RNW", Desc: "Read/Write mode", Values: "0=Write, 1=Read"},
				{Bits: "6:0", Name: "I2C_ID_4", Desc: "I2C slave address", Values: "7-bit address"},
			}},
		{Address: uint8(I2C_SLV4_REG), Name: "I2C_SLV4_REG", Desc: "I2C Slave 4 Register", Access: "RW"},
		{Address: uint8(I2C_SLV4_DO), Name: "I2C_SLV4_DO", Desc: "I2C Slave 4 Data Out", Access: "RW"},
		{Address: uint8(I2C_SLV4_CTRL), Name: "I2C_SLV4_CTRL", Desc: "I2C Slave 4 Control", Access: "RW",
			BitFields: []BitField{
				{Bits: "7", Name: "I2C_SLV4_EN", Desc: "Start transaction", Values: "1=Enable"},
				{Bits: "6", Name: "SLV4_DONE_INT_EN", Desc: "Interrupt on completion", Values: "0=Disabled, 1=Enabled"},
				{Bits: "5", Name: "I2C_SLV4_REG_DIS", Desc: "Register disable"},
				{Bits: "4:0", Name: "I2C_MST_DLY", Desc: "Slave access delay", Values: "0-31"},
			}},
		{Address: uint8(I2C_SLV4_DI), Name: "I2C_SLV4_DI", Desc: "I2C Slave 4 Data In", Access: "R"},
		{Address: uint8(I2C_MST_STATUS), Name: "I2C_MST_STATUS", Desc: "I2C Master Status", Access: "R",
			BitFields: []BitField{
				{Bits: "6", Name: "I2C_SLV4_DONE", Desc: "Slave 4 transaction complete"},
				{Bits: "5", Name: "I2C_LOST_ARB", Desc: "Master lost bus arbitration"},
				{Bits: "4", Name: "I2C_SLV4_NACK", Desc: "Slave 4 received NACK"},
			}},

		{Address: uint8(INT_PIN_CFG), Name: "INT_PIN_CFG", Desc: "INT Pin / Bypass Enable Configuration", Access: "RW",
			BitFields: []BitField{
				{Bits: "7", Name: "ACTL", Desc: "INT pin active low", Values: "0=Active high, 1=Active low"},
				{Bits: "6", Name: "OPEN", Desc: "INT pin open drain", Values: "0=Push-pull, 1=Open drain"},
				{Bits: "5", Name: "LATCH_INT_EN", Desc: "Latch INT pin", Values: "0=50us pulse, 1=Latch until cleared"},
				{Bits: "4", Name: "INT_ANYRD_2CLEAR", Desc: "Clear INT on any read", Values: "0=Status read only, 1=Any read"},
				{Bits: "3", Name: "ACTL_FSYNC", Desc: "FSYNC pin active low", Values: "0=Active high, 1=Active low"},
				{Bits: "2", Name: "FSYNC_INT_MODE_EN", Desc: "Enable FSYNC as interrupt", Values: "0=Disabled, 1=Enabled"},
				{Bits: "1", Name: "BYPASS_EN", Desc: "I2C bypass enable", Values: "0=Disabled, 1=Enabled"},
			}},
		{Address: uint8(INT_ENABLE), Name: "INT_ENABLE", Desc: "Interrupt Enable", Access: "RW",
			BitFields: []BitField{
				{Bits: "6", Name: "WOM_EN", Desc: "Wake on Motion interrupt", Values: "0=Disabled, 1=Enabled"},
				{Bits: "4", Name: "FIFO_OVERFLOW_EN", Desc: "FIFO overflow interrupt", Values: "0=Disabled, 1=Enabled"},
				{Bits: "3", Name: "FSYNC_INT_EN", Desc: "FSYNC interrupt", Values: "0=Disabled, 1=Enabled"},
				{Bits: "0", Name: "RAW_RDY_EN", Desc: "Raw data ready interrupt", Values: "0=Disabled, 1=Enabled"},
			}},
		{Address: uint8(INT_STATUS), Name: "INT_STATUS", Desc: "Interrupt Status", Access: "R"},

		{Address: uint8(ACCEL_XOUT_H), Name: "ACCEL_XOUT_H", Desc: "Accelerometer X-Axis High Byte", Access: "R"},
		{Address: uint8(ACCEL_XOUT_L), Name: "ACCEL_XOUT_L", Desc: "Accelerometer X-Axis Low Byte", Access: "R"},
		{Address: uint8(ACCEL_YOUT_H), Name: "ACCEL_YOUT_H", Desc: "Accelerometer Y-Axis High Byte", Access: "R"},
		{Address: uint8(ACCEL_YOUT_L), Name: "ACCEL_YOUT_L", Desc: "Accelerometer Y-Axis Low Byte", Access: "R"},
		{Address: uint8(ACCEL_ZOUT_H), Name: "ACCEL_ZOUT_H", Desc: "Accelerometer Z-Axis High Byte", Access: "R"},
		{Address: uint8(ACCEL_ZOUT_L), Name: "ACCEL_ZOUT_L", Desc: "Accelerometer Z-Axis Low Byte", Access: "R"},
		{Address: uint8(TEMP_OUT_H), Name: "TEMP_OUT_H", Desc: "Temperature High Byte", Access: "R"},
		{Address: uint8(TEMP_OUT_L), Name: "TEMP_OUT_L", Desc: "Temperature Low Byte", Access: "R"},
		{Address: uint8(GYRO_XOUT_H), Name: "GYRO_XOUT_H", Desc: "Gyroscope X-Axis High Byte", Access: "R"},
		{Address: uint8(GYRO_XOUT_L), Name: "GYRO_XOUT_L", Desc: "Gyroscope X-Axis Low Byte", Access: "R"},
		{Address: uint8(GYRO_YOUT_H), Name: "GYRO_YOUT_H", Desc: "Gyroscope Y-Axis High Byte", Access: "R"},
		{Address: uint8(GYRO_YOUT_L), Name: "GYRO_YOUT_L", Desc: "Gyroscope Y-Axis Low Byte", Access: "R"},
		{Address: uint8(GYRO_ZOUT_H), Name: "GYRO_ZOUT_H", Desc: "Gyroscope Z-Axis High Byte", Access: "R"},
		{Address: uint8(GYRO_ZOUT_L), Name: "GYRO_ZOUT_L", Desc: "Gyroscope Z-Axis Low Byte", Access: "R"},

		{Address: uint8(EXT_SENS_DATA_00), Name: "EXT_SENS_DATA_00", Desc: "External Sensor Data 00 (mag HXL when slave 0 armed)", Access: "R"},
		{Address: uint8(EXT_SENS_DATA_01), Name: "EXT_SENS_DATA_01", Desc: "External Sensor Data 01", Access: "R"},
		{Address: uint8(EXT_SENS_DATA_02), Name: "EXT_SENS_DATA_02", Desc: "External Sensor Data 02", Access: "R"},
		{Address: uint8(EXT_SENS_DATA_03), Name: "EXT_SENS_DATA_03", Desc: "External Sensor Data 03", Access: "R"},
		{Address: uint8(EXT_SENS_DATA_04), Name: "EXT_SENS_DATA_04", Desc: "External Sensor Data 04", Access: "R"},
		{Address: uint8(EXT_SENS_DATA_05), Name: "EXT_SENS_DATA_05", Desc: "External Sensor Data 05", Access: "R"},
		{Address: uint8(EXT_SENS_DATA_06), Name: "EXT_SENS_DATA_06", Desc: "External Sensor Data 06 (mag ST2 when slave 0 armed)", Access: "R"},

		{Address: uint8(USER_CTRL), Name: "USER_CTRL", Desc: "User Control", Access: "RW",
			BitFields: []BitField{
				{Bits: "6", Name: "FIFO_EN", Desc: "Enable FIFO", Values: "0=Disabled, 1=Enabled"},
				{Bits: "5", Name: "I2C_MST_EN", Desc: "Enable I2C Master", Values: "0=Disabled, 1=Enabled"},
				{Bits: "4", Name: "I2C_IF_DIS", Desc: "Disable I2C Slave", Values: "0=Enabled, 1=Disabled"},
				{Bits: "2", Name: "FIFO_RST", Desc: "Reset FIFO", Values: "1=Reset"},
				{Bits: "1", Name: "I2C_MST_RST", Desc: "Reset I2C Master", Values: "1=Reset"},
				{Bits: "0", Name: "SIG_COND_RST", Desc: "Reset signal paths", Values: "1=Reset"},
			}},
		{Address: uint8(PWR_MGMT_1), Name: "PWR_MGMT_1", Desc: "Power Management 1", Access: "RW", Default: 0x01,
			BitFields: []BitField{
				{Bits: "7", Name: "H_RESET", Desc: "Device reset", Values: "1=Reset device"},
				{Bits: "6", Name: "SLEEP", Desc: "Sleep mode", Values: "0=Disabled, 1=Sleep"},
				{Bits: "5", Name: "CYCLE", Desc: "Cycle mode", Values: "0=Disabled, 1=Cycle"},
				{Bits: "3", Name: "PD_PTAT", Desc: "Temperature sensor", Values: "0=Enabled, 1=Disabled"},
				{Bits: "2:0", Name: "CLKSEL", Desc: "Clock source", Values: "0=Internal 20MHz, 1=Auto select best"},
			}},
		{Address: uint8(PWR_MGMT_2), Name: "PWR_MGMT_2", Desc: "Power Management 2", Access: "RW",
			BitFields: []BitField{
				{Bits: "5", Name: "DISABLE_XA", Desc: "Disable X accelerometer", Values: "0=Enabled, 1=Disabled"},
				{Bits: "4", Name: "DISABLE_YA", Desc: "Disable Y accelerometer", Values: "0=Enabled, 1=Disabled"},
				{Bits: "3", Name: "DISABLE_ZA", Desc: "Disable Z accelerometer", Values: "0=Enabled, 1=Disabled"},
				{Bits: "2", Name: "DISABLE_XG", Desc: "Disable X gyro", Values: "0=Enabled, 1=Disabled"},
				{Bits: "1", Name: "DISABLE_YG", Desc: "Disable Y gyro", Values: "0=Enabled, 1=Disabled"},
				{Bits: "0", Name: "DISABLE_ZG", Desc: "Disable Z gyro", Values: "0=Enabled, 1=Disabled"},
			}},

		{Address: uint8(WHO_AM_I), Name: "WHO_AM_I", Desc: "Device ID (0x71 for MPU-9250, 0x73 for MPU-9255)", Access: "R", Default: 0x71},
	}
}

// AKCatalog returns metadata for the AK8963 registers. On the bypass
// transport these live on the external bus at address 0x0C; over SPI the
// console reaches them through the internal I2C master.
func AKCatalog() []Info {
	return []Info{
		{Address: uint8(WIA), Name: "WIA", Desc: "Device identification (0x48)", Access: "R", Default: 0x48},
		{Address: uint8(INFO), Name: "INFO", Desc: "Device information", Access: "R"},
		{Address: uint8(ST1), Name: "ST1", Desc: "Status 1 - data ready and overrun", Access: "R",
			BitFields: []BitField{
				{Bits: "1", Name: "DOR", Desc: "Data overrun", Values: "0=No overrun, 1=Data overrun"},
				{Bits: "0", Name: "DRDY", Desc: "Data ready", Values: "0=Not ready, 1=Data ready"},
			}},
		{Address: uint8(HXL), Name: "HXL", Desc: "X-axis data low byte", Access: "R"},
		{Address: uint8(HXH), Name: "HXH", Desc: "X-axis data high byte", Access: "R"},
		{Address: uint8(HYL), Name: "HYL", Desc: "Y-axis data low byte", Access: "R"},
		{Address: uint8(HYH), Name: "HYH", Desc: "Y-axis data high byte", Access: "R"},
		{Address: uint8(HZL), Name: "HZL", Desc: "Z-axis data low byte", Access: "R"},
		{Address: uint8(HZH), Name: "HZH", Desc: "Z-axis data high byte", Access: "R"},
		{Address: uint8(ST2), Name: "ST2", Desc: "Status 2 - overflow and output width", Access: "R",
			BitFields: []BitField{
				{Bits: "4", Name: "BITM", Desc: "Output data bit width", Values: "0=14-bit, 1=16-bit"},
				{Bits: "3", Name: "HOFL", Desc: "Magnetic sensor overflow", Values: "0=No overflow, 1=Overflow"},
			}},
		{Address: uint8(CNTL1), Name: "CNTL1", Desc: "Control 1 - operation mode and resolution", Access: "RW",
			BitFields: []BitField{
				{Bits: "6", Name: "BIT", Desc: "Output data bit width", Values: "0=14-bit, 1=16-bit"},
				{Bits: "3:0", Name: "MODE", Desc: "Operation mode", Values: "0=PowerDown, 1=Single, 2=Continuous(8Hz), 4=ExternalTrigger, 6=Continuous(100Hz), 8=SelfTest, 15=FuseROM"},
			}},
		{Address: uint8(CNTL2), Name: "CNTL2", Desc: "Control 2 - soft reset", Access: "RW",
			BitFields: []BitField{
				{Bits: "0", Name: "SRST", Desc: "Soft reset", Values: "0=Normal, 1=Reset"},
			}},
		{Address: uint8(ASTC), Name: "ASTC", Desc: "Self-test control", Access: "RW",
			BitFields: []BitField{
				{Bits: "6", Name: "SELF", Desc: "Generate magnetic field for self-test", Values: "0=Disabled, 1=Enabled"},
			}},
		{Address: uint8(ASAX), Name: "ASAX", Desc: "X-axis sensitivity adjustment (fuse ROM)", Access: "R",
			BitFields: []BitField{
				{Bits: "7:0", Name: "ASAX", Desc: "Applied as (ASAX-128)/256 + 1.0"},
			}},
		{Address: uint8(ASAY), Name: "ASAY", Desc: "Y-axis sensitivity adjustment (fuse ROM)", Access: "R",
			BitFields: []BitField{
				{Bits: "7:0", Name: "ASAY", Desc: "Applied as (ASAY-128)/256 + 1.0"},
			}},
		{Address: uint8(ASAZ), Name: "ASAZ", Desc: "Z-axis sensitivity adjustment (fuse ROM)", Access: "R",
			BitFields: []BitField{
				{Bits: "7:0", Name: "ASAZ", Desc: "Applied as (ASAZ-128)/256 + 1.0"},
			}},
	}
}
