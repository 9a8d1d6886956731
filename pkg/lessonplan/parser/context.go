package parser

import (
	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/models"
	"go.uber.org/zap"
)

// BuildContext extracts one lesson into ctx: overview fields first, then the
// numbered form slots. The returned Lesson carries the same data in typed form.
func BuildContext(wb *Workbook, lesson int, ctx *models.Context) (*models.Lesson, error) {
	overview, err := ReadOverview(wb, lesson)
	if err != nil {
		return nil, err
	}
	details, err := ReadDetails(wb, lesson)
	if err != nil {
		return nil, err
	}

	overview.Bind(ctx)
	details.Bind(ctx)

	if ce := wb.logger.Check(zap.DebugLevel, "context built"); ce != nil {
		ce.Write(zap.Int("lesson", lesson), zap.Strings("fields", ctx.Keys()))
	}

	return &models.Lesson{
		Number:   overview.Number,
		Name:     overview.Name,
		Duration: overview.Duration,
		Airwork:  details.Airwork,
		Briefing: details.Briefing,
	}, nil
}
