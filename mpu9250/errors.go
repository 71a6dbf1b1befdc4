package mpu9250

import (
	"errors"
	"fmt"

	"github.com/ebelski/go-copter/mpu9250/regs"
)

// Errors reported by the internal I2C master when proxying AK8963 accesses
// over SPI.
var (
	// ErrNack means slave 4 saw no acknowledge from the AK8963.
	ErrNack = errors.New("mpu9250: ak8963 access not acknowledged")
	// ErrLostArbitration means the internal master lost the auxiliary bus.
	ErrLostArbitration = errors.New("mpu9250: internal i2c master lost arbitration")
)

// TimeoutError is returned when an AK8963 access through the internal I2C
// master never completed within the bounded status poll.
type TimeoutError struct {
	// Attempts is the number of status polls issued before giving up.
	Attempts int
	// Register is the AK8963 register being accessed.
	Register regs.AKReg
	// Value is the byte being written, nil for a read.
	Value *uint8
}

func (e *TimeoutError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("mpu9250: timed out after %d polls writing 0x%02X to ak8963 %v", e.Attempts, *e.Value, e.Register)
	}
	return fmt.Sprintf("mpu9250: timed out after %d polls reading ak8963 %v", e.Attempts, e.Register)
}

// WhoAmIError is returned when an identity register read during bring-up
// does not match any accepted value.
type WhoAmIError struct {
	Expected []uint8
	Actual   uint8
}

func (e *WhoAmIError) Error() string {
	return fmt.Sprintf("mpu9250: WHO_AM_I mismatch: got 0x%02X, want one of %#02X", e.Actual, e.Expected)
}
