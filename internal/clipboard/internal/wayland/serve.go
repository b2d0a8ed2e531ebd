package wayland

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// Object IDs assigned by us from the client range (2..0xfeffffff).
const (
	idDisplay   uint32 = 1
	idRegistry  uint32 = 2
	idSyncOne   uint32 = 3
	idSeat      uint32 = 4
	idDCManager uint32 = 5 // zwlr_data_control_manager_v1
	idDCSource  uint32 = 6 // zwlr_data_control_source_v1
	idDCDevice  uint32 = 7 // zwlr_data_control_device_v1
	idSyncTwo   uint32 = 8
)

// Serve claims the clipboard selection and blocks, answering paste requests
// with the matching MIME payload, until another application takes the
// selection over. It is meant to run in a detached owner process.
func Serve(formats map[string][]byte) error {
	runtime := os.Getenv("XDG_RUNTIME_DIR")
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = "wayland-0"
	}
	if runtime == "" {
		return fmt.Errorf("wayland: XDG_RUNTIME_DIR not set")
	}

	c, err := dial(filepath.Join(runtime, display))
	if err != nil {
		return fmt.Errorf("wayland: connect: %w", err)
	}
	defer c.close()

	seatName, dcManagerName, err := discoverGlobals(c)
	if err != nil {
		return err
	}
	if err := claimSelection(c, seatName, dcManagerName, formats); err != nil {
		return err
	}
	return serveRequests(c, formats)
}

// discoverGlobals asks the registry for globals and waits for the sync
// callback, returning the names of wl_seat and the data-control manager.
func discoverGlobals(c *conn) (seatName, dcManagerName uint32, err error) {
	if err = c.request(idDisplay, 1 /*get_registry*/, uint32Arg(idRegistry)); err != nil {
		return 0, 0, err
	}
	if err = c.request(idDisplay, 0 /*sync*/, uint32Arg(idSyncOne)); err != nil {
		return 0, 0, err
	}

	var seatFound, managerFound bool
	for {
		objectID, opcode, payload, fd, evErr := c.event()
		if evErr != nil {
			return 0, 0, evErr
		}
		if fd >= 0 {
			syscall.Close(fd) //nolint:errcheck
		}

		if objectID == idSyncOne && opcode == 0 /*done*/ {
			break
		}
		if objectID != idRegistry || opcode != 0 /*global*/ || len(payload) < 4 {
			continue
		}

		name := wire.Uint32(payload[:4])
		iface, _, decErr := readString(payload[4:])
		if decErr != nil {
			continue
		}
		switch iface {
		case "wl_seat":
			seatName = name
			seatFound = true
		case "zwlr_data_control_manager_v1":
			dcManagerName = name
			managerFound = true
		}
	}

	if !seatFound {
		return 0, 0, fmt.Errorf("wayland: wl_seat not found")
	}
	if !managerFound {
		return 0, 0, fmt.Errorf("wayland: compositor does not support wlr-data-control")
	}
	return seatName, dcManagerName, nil
}

// claimSelection binds the seat and manager, creates a data source offering
// every MIME type, and sets it as the selection, confirmed by a second sync.
func claimSelection(c *conn, seatName, dcManagerName uint32, formats map[string][]byte) error {
	// wl_registry.bind encodes new_id inline: [name][interface][version][id].
	if err := c.request(idRegistry, 0 /*bind*/, args(
		uint32Arg(seatName), stringArg("wl_seat"), uint32Arg(1), uint32Arg(idSeat),
	)); err != nil {
		return err
	}
	if err := c.request(idRegistry, 0 /*bind*/, args(
		uint32Arg(dcManagerName), stringArg("zwlr_data_control_manager_v1"), uint32Arg(2), uint32Arg(idDCManager),
	)); err != nil {
		return err
	}

	if err := c.request(idDCManager, 0 /*create_data_source*/, uint32Arg(idDCSource)); err != nil {
		return err
	}
	for mimeType := range formats {
		if err := c.request(idDCSource, 0 /*offer*/, stringArg(mimeType)); err != nil {
			return err
		}
	}

	if err := c.request(idDCManager, 1 /*get_data_device*/, args(
		uint32Arg(idDCDevice), uint32Arg(idSeat),
	)); err != nil {
		return err
	}
	if err := c.request(idDCDevice, 0 /*set_selection*/, uint32Arg(idDCSource)); err != nil {
		return err
	}

	if err := c.request(idDisplay, 0 /*sync*/, uint32Arg(idSyncTwo)); err != nil {
		return err
	}
	for {
		objectID, opcode, _, fd, err := c.event()
		if err != nil {
			return err
		}
		if fd >= 0 {
			syscall.Close(fd) //nolint:errcheck
		}
		if objectID == idSyncTwo && opcode == 0 /*done*/ {
			return nil
		}
	}
}

// serveRequests answers send events until the selection is cancelled.
func serveRequests(c *conn, formats map[string][]byte) error {
	for {
		objectID, opcode, payload, fd, err := c.event()
		if err != nil {
			// Connection loss means the compositor went away; nothing to own.
			return nil
		}

		if objectID != idDCSource {
			if fd >= 0 {
				syscall.Close(fd) //nolint:errcheck
			}
			continue
		}

		switch opcode {
		case 0: // send
			mimeType, _, _ := readString(payload)
			if fd >= 0 {
				if data, ok := formats[mimeType]; ok {
					syscall.Write(fd, data) //nolint:errcheck
				}
				syscall.Close(fd) //nolint:errcheck
			}
		case 1: // cancelled
			return nil
		}
	}
}
