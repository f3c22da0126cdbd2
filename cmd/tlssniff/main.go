// Command tlssniff points capture at a pcap file or a live, BPF-filtered
// interface and prints one line per observed ClientHello, ServerHello or
// Alert record.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/mel2oo/tlssniff/capture"
	"github.com/mel2oo/tlssniff/slices"
	"github.com/mel2oo/tlssniff/tlsframe"
)

func main() {
	var (
		pcapFile = flag.String("r", "", "read packets from this pcap file")
		device   = flag.String("i", "", "capture live from this interface")
		bpf      = flag.String("f", "tcp", "BPF filter for captured packets")
	)
	flag.Parse()

	if *pcapFile == "" && *device == "" {
		fmt.Fprintln(os.Stderr, "tlssniff: one of -r or -i is required")
		os.Exit(2)
	}

	opts := []capture.Option{capture.WithBPF(*bpf)}
	if *device != "" {
		opts = append(opts, capture.WithReadName(*device, true))
	} else {
		opts = append(opts, capture.WithReadName(*pcapFile, false))
	}

	capturer, err := capture.New(opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tlssniff:", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	observations, err := capturer.Run(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tlssniff:", err)
		os.Exit(1)
	}

	for obs := range observations {
		printObservation(obs)
	}
}

func printObservation(obs capture.Observation) {
	switch obs.Frame.HandshakeType {
	case tlsframe.HandshakeClientHello:
		name, _ := obs.Frame.TargetName.Get()
		hash, _ := obs.ClientJA3.Get()
		ciphers := strings.Join(slices.Map(obs.Frame.CipherSuites, func(c uint16) string {
			return fmt.Sprintf("%#04x", c)
		}), ",")
		fmt.Printf("%s  %s:%d -> %s:%d  ClientHello  sni=%q  versions=%s  ciphers=[%s]  ja3=%s\n",
			obs.ObservationTime.Format("15:04:05.000"),
			obs.SrcIP, obs.SrcPort, obs.DstIP, obs.DstPort,
			name, obs.Frame.SupportedVersions, ciphers, hash)

	case tlsframe.HandshakeServerHello:
		hash, _ := obs.ServerJA3.Get()
		fmt.Printf("%s  %s:%d -> %s:%d  ServerHello  versions=%s  ja3=%s\n",
			obs.ObservationTime.Format("15:04:05.000"),
			obs.SrcIP, obs.SrcPort, obs.DstIP, obs.DstPort,
			obs.Frame.SupportedVersions, hash)

	default:
		if obs.Frame.Header.ContentType == tlsframe.ContentTypeAlert {
			fmt.Printf("%s  %s:%d -> %s:%d  Alert  level=%d  description=%d\n",
				obs.ObservationTime.Format("15:04:05.000"),
				obs.SrcIP, obs.SrcPort, obs.DstIP, obs.DstPort,
				obs.Frame.AlertLevel, obs.Frame.AlertDescription)
		}
	}
}
