package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/facette/natsort"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/wildstyl3r/epgen/internal/config"
	"github.com/wildstyl3r/epgen/internal/constants"
	"github.com/wildstyl3r/epgen/internal/utils"
	"github.com/wildstyl3r/epgen/internal/xsec"
)

var (
	configPath string
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "epgen",
	Short: "Radiatively corrected elastic lepton-proton cross sections and events",
	Long: `epgen computes the Born, non-radiative and radiative differential
cross sections dsigma/dQ2 of elastic lepton-proton scattering and
optionally samples scattering events from them.

Each [Scans.<name>] section of the configuration produces a CSV table
over its Q2 range, an optional PNG plot, and an optional event sample.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg = zap.NewDevelopmentConfig()
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), configPath)
	},
}

func main() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.toml", "TOML scan configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, path string) error {
	c, meta, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	outputPath := ""
	if c.OutputDir != "" {
		if err := os.MkdirAll(c.OutputDir, 0750); err != nil {
			return err
		}
		outputPath = c.OutputDir + "/"
	}

	scanNames := make([]string, 0, len(c.Scans))
	for name := range c.Scans {
		scanNames = append(scanNames, name)
	}
	natsort.Sort(scanNames)

	for _, name := range scanNames {
		parameters := c.Scans[name]
		if !parameters.CheckDefaults(name, &c, &meta) {
			logger.Warn("scan lacks key parameters (BeamEnergy, Q2Min or Q2Max), skipped",
				zap.String("scan", name))
			continue
		}
		if err := runScan(ctx, name, parameters, outputPath); err != nil {
			return fmt.Errorf("scan %s: %w", name, err)
		}
	}
	return nil
}

func runScan(ctx context.Context, name string, sp config.ScanParameters, outputPath string) error {
	log := logger.With(zap.String("scan", name))
	log.Info("starting scan",
		zap.Float64("beam_energy", sp.BeamEnergy),
		zap.Float64("q2_min", sp.Q2Min),
		zap.Float64("q2_max", sp.Q2Max))

	g, err := xsec.New(xsec.Params{
		VMin:    sp.VMin,
		VCut:    sp.VCut,
		MinBins: sp.MinBins,
		TPrec:   sp.TPrec,
		VPrec:   sp.VPrec,
	}, xsec.WithLogger(log))
	if err != nil {
		return err
	}
	S := xsec.SFromBeamEnergy(sp.BeamEnergy)

	points := sp.Points
	if points < 2 {
		points = 2
	}
	step := (sp.Q2Max - sp.Q2Min) / float64(points-1)

	// rows in nb/MeV^2
	rows := make([][4]float64, points)
	for i := range rows {
		q2 := sp.Q2Min + float64(i)*step
		born, nonRad, rad := g.DifferentialXS(S, q2)
		rows[i] = [4]float64{
			q2,
			born * constants.MeVInvSqToNbarn,
			nonRad * constants.MeVInvSqToNbarn,
			rad * constants.MeVInvSqToNbarn,
		}
	}

	if err := writeScanCSV(outputPath+name+".csv", rows); err != nil {
		return err
	}
	if sp.Plot {
		if err := writeScanPlot(outputPath+name+".png", name, rows); err != nil {
			return err
		}
	}
	if sp.Events > 0 {
		if err := sampleEvents(ctx, log, g, S, sp, outputPath+name+"_events.csv"); err != nil {
			return err
		}
	}
	log.Info("scan done")
	return nil
}

func writeScanCSV(path string, rows [][4]float64) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Q2 [MeV^2]", "born [nb/MeV^2]", "nonradiative [nb/MeV^2]", "radiative [nb/MeV^2]"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := make([]string, len(r))
		for i, v := range r {
			record[i] = strconv.FormatFloat(v, 'e', 9, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeScanPlot(path, title string, rows [][4]float64) error {
	born := make(plotter.XYs, len(rows))
	nonRad := make(plotter.XYs, len(rows))
	rad := make(plotter.XYs, len(rows))
	for i, r := range rows {
		born[i] = plotter.XY{X: r[0], Y: r[1]}
		nonRad[i] = plotter.XY{X: r[0], Y: r[2]}
		rad[i] = plotter.XY{X: r[0], Y: r[3]}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Q2 [MeV^2]"
	p.Y.Label.Text = "dsigma/dQ2 [nb/MeV^2]"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{}

	if err := plotutil.AddLines(p,
		"born", born,
		"nonradiative", nonRad,
		"radiative", rad); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

func sampleEvents(ctx context.Context, log *zap.Logger, g *xsec.Generator, S float64, sp config.ScanParameters, path string) error {
	sampler, err := g.NewSampler(ctx, S, sp.Q2Min, sp.Q2Max)
	if err != nil {
		return err
	}
	log.Info("sampling grid built",
		zap.Float64("total_nb", sampler.Total()*constants.MeVInvSqToNbarn))

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Q2 [MeV^2]", "v [MeV^2]", "t [MeV^2]", "phik [rad]", "radiative", "weight"}); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(sp.Seed))
	weights := make([]float64, 0, sp.Events)
	radiative := 0
	for i := 0; i < sp.Events; i++ {
		ev, err := sampler.Sample(rng)
		if err != nil {
			return err
		}
		if ev.Radiative {
			radiative++
		}
		weights = append(weights, ev.Weight)
		if err := w.Write([]string{
			strconv.FormatFloat(ev.Q2, 'e', 9, 64),
			strconv.FormatFloat(ev.V, 'e', 9, 64),
			strconv.FormatFloat(ev.T, 'e', 9, 64),
			strconv.FormatFloat(ev.PhiK, 'e', 9, 64),
			strconv.FormatBool(ev.Radiative),
			strconv.FormatFloat(ev.Weight, 'e', 9, 64),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	mean, variance := utils.MeanAndVariance(weights, true)
	halfCI := constants.Quantile95 * math.Sqrt(variance/float64(len(weights)))
	log.Info("events sampled",
		zap.Int("events", sp.Events),
		zap.Int("radiative", radiative),
		zap.Float64("weight_mean", mean),
		zap.Float64("weight_mean_ci95", halfCI),
		zap.Float64("weight_variance", variance))
	return nil
}
