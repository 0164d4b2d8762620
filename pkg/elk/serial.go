package elk

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// DefaultBaud is the rate of the BLE-UART bridge firmware.
const DefaultBaud = 115200

// SerialLink writes frames to a BLE-UART bridge dongle that forwards each
// 9-byte frame to the paired controller.
type SerialLink struct {
	port serial.Port
	path string
	mu   sync.Mutex
}

// OpenSerial opens the bridge at the given baud rate, 8N1.
func OpenSerial(portPath string, baud int) (*SerialLink, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portPath, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portPath, err)
	}

	// Bridge firmware holds the BLE link only while DTR is asserted.
	if err := port.SetDTR(true); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set DTR: %w", err)
	}

	log.Info().Str("port", portPath).Int("baud", baud).Msg("Serial bridge opened")

	return &SerialLink{port: port, path: portPath}, nil
}

// Write sends one frame.
func (s *SerialLink) Write(ctx context.Context, f Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == nil {
		return ErrLinkClosed
	}

	n, err := s.port.Write(f[:])
	if err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	if n != len(f) {
		return fmt.Errorf("write %s: short write %d/%d", s.path, n, len(f))
	}

	log.Debug().Str("frame", f.String()).Msg("Frame sent")
	return nil
}

// Close closes the serial port.
func (s *SerialLink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}

// ListPorts returns the serial ports present on the system.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}
