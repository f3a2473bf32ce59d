//go:build !linux

package jobsystem

// PinToCPU is not supported outside Linux.
func PinToCPU(int) error {
	return ErrPinUnsupported
}
