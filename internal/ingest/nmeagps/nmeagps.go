// Package nmeagps reads NMEA sentences off a serial GPS receiver and
// assembles messages.GPSSample values for the filter core's GPS
// corrector.
package nmeagps

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/aerolume/iekf-nav/internal/config"
	"github.com/aerolume/iekf-nav/internal/messages"
)

// Receiver accumulates RMC (position/velocity) and GGA/GSA (fix
// quality) sentences into one combined GPSSample, publishing on RMC
// -- the highest-rate sentence a typical receiver emits.
type Receiver struct {
	port   io.ReadWriteCloser
	reader *bufio.Reader

	satellitesUsed uint8
	fixType        uint8
	altM           float64
}

// Open opens the configured serial port and returns a Receiver ready
// for NextFix.
func Open(cfg *config.Config) (*Receiver, error) {
	opts := serial.OpenOptions{
		PortName:              cfg.GPSSerialPort,
		BaudRate:              uint(cfg.GPSBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("nmeagps: open %s: %w", cfg.GPSSerialPort, err)
	}

	return &Receiver{port: port, reader: bufio.NewReader(port)}, nil
}

// Close releases the serial port.
func (r *Receiver) Close() error { return r.port.Close() }

// NextFix blocks until an RMC sentence with a fresh position is
// parsed and returns the combined fix. GGA/GSA sentences update
// satellite count and fix type in the background between RMC
// sentences; a receiver that never emits them reports zero on both,
// which the GPS corrector's quality gate then rejects (§4.4.4).
func (r *Receiver) NextFix() (messages.GPSSample, error) {
	for {
		line, err := r.reader.ReadString('\n')
		if err != nil {
			return messages.GPSSample{}, fmt.Errorf("nmeagps: read: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "$") {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			continue
		}

		switch sentence.DataType() {
		case nmea.TypeGGA:
			g := sentence.(nmea.GGA)
			r.satellitesUsed = uint8(g.NumSatellites)
			r.altM = g.Altitude
			if g.FixQuality != "" {
				r.fixType = ggaFixQualityToType(g.FixQuality)
			}

		case nmea.TypeGSA:
			a := sentence.(nmea.GSA)
			if ft := gsaFixTypeToType(a.FixType); ft > r.fixType {
				r.fixType = ft
			}

		case nmea.TypeRMC:
			m := sentence.(nmea.RMC)
			if m.Validity != "A" {
				continue
			}
			return messages.GPSSample{
				TimestampUs:    uint64(m.Time.Hour)*3600e6 + uint64(m.Time.Minute)*60e6 + uint64(m.Time.Second)*1e6,
				LatE7:          int32(m.Latitude * 1e7),
				LonE7:          int32(m.Longitude * 1e7),
				AltMM:          int32(r.altM * 1000),
				VelN:           m.Speed * 0.514444 * cosDeg(m.Course),
				VelE:           m.Speed * 0.514444 * sinDeg(m.Course),
				VelD:           0,
				SatellitesUsed: r.satellitesUsed,
				FixType:        r.fixType,
			}, nil
		}
	}
}

func ggaFixQualityToType(q string) uint8 {
	switch q {
	case "1":
		return 3
	case "2":
		return 4
	case "4", "5":
		return 5
	default:
		return 0
	}
}

func gsaFixTypeToType(t string) uint8 {
	switch t {
	case "2":
		return 2
	case "3":
		return 3
	default:
		return 0
	}
}
