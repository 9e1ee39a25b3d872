package container

import (
	"fmt"

	"pricebook/adapters/excel"
	"pricebook/adapters/jsonfile"
	"pricebook/app"
	"pricebook/internal"
	"pricebook/internal/config"
	"pricebook/ui"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Adapters
	Reader *excel.DataReader
	Writer *jsonfile.Writer

	// Services
	Converter *app.ConversionService
	Summary   *app.SummaryService
	Query     *app.QueryService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	reader := excel.NewDataReader(excel.DefaultReaderConfig(), logger)
	writer := jsonfile.NewWriter(logger)

	return &Container{
		Config:    cfg,
		Logger:    logger,
		Reader:    reader,
		Writer:    writer,
		Converter: app.NewConversionService(reader, writer, logger),
		Summary:   app.NewSummaryService(),
		Query:     app.NewQueryService(),
	}, nil
}

// Request builds the conversion request described by the configuration
func (c *Container) Request() app.ConversionRequest {
	return app.ConversionRequest{
		InputPath:  c.Config.Paths.InputFile,
		OutputPath: c.Config.Paths.OutputFile,
		Sheet:      c.Config.Paths.Sheet,
	}
}

// PreviewApp builds the HTTP preview application
func (c *Container) PreviewApp() *ui.App {
	return ui.NewApp(ui.Config{
		Port:    c.Config.Server.Port,
		Request: c.Request(),
	}, c.Converter, c.Logger)
}
