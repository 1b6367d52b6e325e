package usecase

import (
	"context"
	"time"

	"resume-editor/internal/domain"
	"resume-editor/internal/model"
	"resume-editor/internal/rasterize"

	"github.com/sirupsen/logrus"
)

// pipeline carries one upload through the extraction stages.
type pipeline struct {
	mimeType string
	data     []byte
	image    *rasterize.Image
	result   *model.OCRResult
}

type stage struct {
	name string
	run  func(ctx context.Context, p *pipeline) error
}

func (o *Orchestrator) stages() []stage {
	return []stage{
		{
			name: "rasterize",
			run: func(ctx context.Context, p *pipeline) error {
				img, err := o.rasterizer.Rasterize(ctx, p.data, p.mimeType)
				if err != nil {
					return err
				}
				p.image = img
				return nil
			},
		},
		{
			name: "extract",
			run: func(ctx context.Context, p *pipeline) error {
				res, err := o.extractor.Extract(ctx, p.image.Data, p.image.MIMEType)
				if err != nil {
					return err
				}
				if res == nil {
					return domain.NewEmptyResponseError()
				}
				p.result = res
				return nil
			},
		},
	}
}

// runPipeline rasterizes and extracts data within the extraction timeout.
func (o *Orchestrator) runPipeline(ctx context.Context, mimeType string, data []byte, log logrus.FieldLogger) (*model.OCRResult, error) {
	if o.extractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.extractTimeout)
		defer cancel()
	}

	p := &pipeline{mimeType: mimeType, data: data}
	for _, s := range o.stages() {
		start := time.Now()
		err := s.run(ctx, p)
		entry := log.WithFields(logrus.Fields{"stage": s.name, "duration": time.Since(start)})
		if err != nil {
			entry.WithError(err).Warn("Pipeline stage failed")
			return nil, err
		}
		entry.Debug("Pipeline stage completed")
	}
	return p.result, nil
}
