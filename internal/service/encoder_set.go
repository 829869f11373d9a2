// internal/service/encoder_set.go
package service

import (
	"fmt"

	"go.uber.org/zap"

	"printer-service/internal/encoder"
	"printer-service/internal/encoder/escpos"
	"printer-service/internal/encoder/starline"
	"printer-service/internal/model"
)

// EncoderSet resolves and applies the command encoder matching a
// device's protocol. Implements the queue's Encoders dependency.
type EncoderSet struct {
	encoders map[model.CommandProtocol]encoder.Encoder
	logger   *zap.Logger
}

// NewEncoderSet builds encoders for both supported command families.
func NewEncoderSet(cfg encoder.Config, logger *zap.Logger) *EncoderSet {
	return &EncoderSet{
		encoders: map[model.CommandProtocol]encoder.Encoder{
			model.ProtocolEscPos:   escpos.New(cfg, logger),
			model.ProtocolStarLine: starline.New(cfg, logger),
		},
		logger: logger,
	}
}

// Encode serializes a job's content for the given device.
func (s *EncoderSet) Encode(job *model.PrintJob, device *model.PrinterDevice) ([]byte, error) {
	enc := s.For(device)

	switch {
	case job.Content.Receipt != nil:
		return enc.EncodeReceipt(job.Content.Receipt, device)
	case job.Content.Text != "":
		return enc.EncodeText(job.Content.Text, device)
	default:
		return nil, fmt.Errorf("%w: job %s has no printable content", model.ErrInvalidData, job.ID)
	}
}

// For picks the encoder for a device. Unknown protocols fall back to
// ESC/POS, by far the most common family.
func (s *EncoderSet) For(device *model.PrinterDevice) encoder.Encoder {
	protocol := device.Protocol
	if protocol == "" || protocol == model.ProtocolUnknown {
		protocol = encoder.ResolveProtocol(device)
	}
	if enc, ok := s.encoders[protocol]; ok {
		return enc
	}
	s.logger.Debug("Unknown protocol, defaulting to ESC/POS",
		zap.String("printer_id", device.ID),
		zap.String("protocol", string(device.Protocol)),
	)
	return s.encoders[model.ProtocolEscPos]
}
