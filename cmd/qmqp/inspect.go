package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/epithet-ssh/qmqp/pkg/netstr"
	"github.com/epithet-ssh/qmqp/pkg/qmqp"
)

// InspectCLI decodes a request captured off the wire, for debugging.
type InspectCLI struct {
	JSON      bool `help:"Output in JSON format" short:"j"`
	Message   bool `help:"Also print the message body" short:"m"`
	MaxLength int  `help:"Largest frame to accept, in bytes" default:"33554432"`
}

type inspectOutput struct {
	Sender       string   `json:"sender"`
	Recipients   []string `json:"recipients"`
	MessageBytes int      `json:"message_bytes"`
	Message      string   `json:"message,omitempty"`
}

func (i *InspectCLI) Run(logger *slog.Logger, std *stdio) error {
	req, err := qmqp.ReadRequest(std.In, netstr.MaxLength(i.MaxLength))
	if err != nil {
		return fmt.Errorf("failed to decode request: %w", err)
	}
	logger.Debug("decoded request", "sender", req.Sender(), "recipients", len(req.Recipients()))

	out := inspectOutput{
		Sender:       req.Sender(),
		Recipients:   req.Recipients(),
		MessageBytes: len(req.Message()),
	}
	if i.Message {
		out.Message = string(req.Message())
	}

	if i.JSON {
		enc := json.NewEncoder(std.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(std.Out, "Sender:     %s\n", out.Sender)
	for _, r := range out.Recipients {
		fmt.Fprintf(std.Out, "Recipient:  %s\n", r)
	}
	fmt.Fprintf(std.Out, "Message:    %d bytes\n", out.MessageBytes)
	if i.Message {
		fmt.Fprintf(std.Out, "\n%s", out.Message)
	}
	return nil
}
