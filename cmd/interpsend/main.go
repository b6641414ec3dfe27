// Package main implements interpsend, a capture-side test client: it streams
// the microphone to an interpd daemon in the device wire format and prints
// the translations coming back.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ericce/interp/internal/capture"
	"github.com/ericce/interp/internal/logging"
	"github.com/ericce/interp/internal/wire"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		addr     = pflag.String("addr", "127.0.0.1:3333", "interpd address")
		lang     = pflag.Int("lang", 1, "declared input language (1 or 2)")
		channels = pflag.Int("channels", 2, "interleaved channels to emit")
		chunkMS  = pflag.Int("chunk-ms", 20, "capture chunk duration")
		rateFlag = pflag.Int("sample-rate", 16000, "capture sample rate")
		logLevel = pflag.String("log-level", "info", "log level")
	)
	pflag.Parse()

	logger := logging.New(os.Stderr, *logLevel)

	if *lang != 1 && *lang != 2 {
		logger.Error("--lang must be 1 or 2", "lang", *lang)
		return 2
	}
	if *channels != 1 && *channels != 2 {
		logger.Error("--channels must be 1 or 2", "channels", *channels)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		logger.Error("connect failed", "addr", *addr, "error", err)
		return 1
	}
	defer conn.Close()
	logger.Info("connected", "addr", *addr, "lang", *lang)

	flags := wire.FlagLang1In
	if *lang == 2 {
		flags = wire.FlagLang2In
	}

	chunkBytes := *rateFlag * 2 * *chunkMS / 1000
	cap16, err := capture.Start(ctx, *rateFlag, chunkBytes)
	if err != nil {
		logger.Error("capture failed", "error", err)
		return 1
	}
	defer func() { _ = cap16.Stop() }()

	go printText(conn)

	for chunk := range cap16.Chunks() {
		payload := packPCM24(chunk, *channels)
		pkt, err := wire.BuildPacket(wire.MsgTypeAudio, flags, payload)
		if err != nil {
			logger.Error("frame too large", "error", err)
			return 1
		}
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if _, err := conn.Write(pkt); err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Error("send failed", "error", err)
			return 1
		}
	}

	logger.Info("capture stopped")
	return 0
}

// packPCM24 widens s16le mono PCM to packed 24-bit little-endian samples,
// duplicating each sample across the requested interleaved channel count the
// way the capture hardware fills both microphones.
func packPCM24(s16 []byte, channels int) []byte {
	frames := len(s16) / 2
	out := make([]byte, 0, frames*3*channels)
	for i := 0; i < frames; i++ {
		lo := s16[i*2]
		hi := s16[i*2+1]
		for c := 0; c < channels; c++ {
			// s16 sample x becomes x<<8 in 24-bit: low byte zero keeps
			// the sign and scale.
			out = append(out, 0x00, lo, hi)
		}
	}
	return out
}

// printText decodes TEXT frames from the daemon and prints them per screen.
func printText(conn net.Conn) {
	parser := wire.NewParser(wire.MaxPayload)
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			for _, pkt := range parser.Feed(buf[:n]) {
				if pkt.MsgType != wire.MsgTypeText {
					continue
				}
				screen := 1
				if pkt.Flags&wire.FlagLang2Out != 0 {
					screen = 2
				}
				fmt.Printf("[screen %d] %s\n", screen, pkt.Payload)
			}
		}
		if err != nil {
			return
		}
	}
}
