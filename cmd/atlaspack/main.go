// Command atlaspack drives a scripted sequence of allocator operations
// from a small textual op-list file and reports the result of each.
//
// Op-list syntax, one operation per line:
//
//	alloc <name> <width> <height>
//	dealloc <name>
//	grow <width> <height>
//	shrink <width> <height>
//	rearrange
//
// Blank lines and lines starting with # are ignored.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/atlaspack"
)

const (
	exitOK              = 0
	exitOperationFailed = 1
	exitInvalidHandle   = 2
	exitUsageError      = 64
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("atlaspack", flag.ContinueOnError)
	width := fs.Int("width", 1024, "initial atlas width")
	height := fs.Int("height", 1024, "initial atlas height")
	opsPath := fs.String("ops", "", "path to an operation-list file (required)")
	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}
	if *opsPath == "" {
		log.Print("atlaspack: -ops is required")
		return exitUsageError
	}

	f, err := os.Open(*opsPath)
	if err != nil {
		log.Printf("atlaspack: open op-list: %v", err)
		return exitUsageError
	}
	defer f.Close()

	a, err := atlaspack.New(*width, *height)
	if err != nil {
		log.Printf("atlaspack: create atlas: %v", err)
		return exitUsageError
	}

	return runOps(a, f)
}

func runOps(a *atlaspack.Atlas, f *os.File) int {
	ids := make(map[string]atlaspack.AllocId)
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		code, err := dispatch(a, ids, fields)
		if err != nil {
			log.Printf("atlaspack: %q: %v", line, err)
		} else {
			log.Printf("atlaspack: %q: ok", line)
		}
		if code != exitOK {
			return code
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("atlaspack: read op-list: %v", err)
		return exitUsageError
	}
	return exitOK
}

func dispatch(a *atlaspack.Atlas, ids map[string]atlaspack.AllocId, fields []string) (int, error) {
	if len(fields) == 0 {
		return exitUsageError, errors.New("empty operation")
	}

	switch fields[0] {
	case "alloc":
		if len(fields) != 4 {
			return exitUsageError, errors.New("usage: alloc <name> <width> <height>")
		}
		w, h, err := parseDims(fields[2], fields[3])
		if err != nil {
			return exitUsageError, err
		}
		alloc, err := a.Allocate(w, h)
		if err != nil {
			return exitCodeFor(err), err
		}
		ids[fields[1]] = alloc.ID
		return exitOK, nil

	case "dealloc":
		if len(fields) != 2 {
			return exitUsageError, errors.New("usage: dealloc <name>")
		}
		id, ok := ids[fields[1]]
		if !ok {
			return exitInvalidHandle, fmt.Errorf("unknown name %q", fields[1])
		}
		if err := a.Deallocate(id); err != nil {
			return exitCodeFor(err), err
		}
		delete(ids, fields[1])
		return exitOK, nil

	case "grow":
		if len(fields) != 3 {
			return exitUsageError, errors.New("usage: grow <width> <height>")
		}
		w, h, err := parseDims(fields[1], fields[2])
		if err != nil {
			return exitUsageError, err
		}
		if err := a.Grow(w, h); err != nil {
			return exitCodeFor(err), err
		}
		return exitOK, nil

	case "shrink":
		if len(fields) != 3 {
			return exitUsageError, errors.New("usage: shrink <width> <height>")
		}
		w, h, err := parseDims(fields[1], fields[2])
		if err != nil {
			return exitUsageError, err
		}
		if err := a.Shrink(w, h); err != nil {
			return exitCodeFor(err), err
		}
		return exitOK, nil

	case "rearrange":
		cl, err := a.Rearrange()
		if err != nil {
			return exitCodeFor(err), err
		}
		for _, remap := range cl.Remapped {
			for name, id := range ids {
				if id == remap.Old {
					ids[name] = remap.New
				}
			}
		}
		for _, failed := range cl.Failed {
			for name, id := range ids {
				if id == failed {
					delete(ids, name)
				}
			}
		}
		return exitOK, nil

	default:
		return exitUsageError, fmt.Errorf("unknown operation %q", fields[0])
	}
}

func parseDims(ws, hs string) (int, int, error) {
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width %q: %w", ws, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height %q: %w", hs, err)
	}
	return w, h, nil
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, atlaspack.ErrInvalidHandle):
		return exitInvalidHandle
	case errors.Is(err, atlaspack.ErrNotEnoughSpace), errors.Is(err, atlaspack.ErrDoesNotFit):
		return exitOperationFailed
	default:
		return exitOperationFailed
	}
}
