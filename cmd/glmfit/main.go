// Command glmfit fits a generalized linear model to a CSV dataset and
// prints the coefficient table.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/BrownEpi/StatsCompPH-BrownSPH/dataset"
	"github.com/BrownEpi/StatsCompPH-BrownSPH/formula"
	"github.com/BrownEpi/StatsCompPH-BrownSPH/glm"
)

// modelConfig mirrors the command line flags; it can also be read from a
// YAML file given with --config.
type modelConfig struct {
	Data        string            `yaml:"data"`
	Response    string            `yaml:"response"`
	Predictors  []string          `yaml:"predictors"`
	Categorical map[string]string `yaml:"categorical"`
	Family      string            `yaml:"family"`
	Link        string            `yaml:"link"`
	Weight      string            `yaml:"weight"`
	Cluster     string            `yaml:"cluster"`
	NoIntercept bool              `yaml:"no_intercept"`

	Robust       bool    `yaml:"robust"`
	Exponentiate bool    `yaml:"exponentiate"`
	Tol          float64 `yaml:"tolerance"`
	MaxIter      int     `yaml:"max_iterations"`
}

func parseFamily(s string) (glm.FamilyType, error) {
	switch strings.ToLower(s) {
	case "gaussian":
		return glm.GaussianFamily, nil
	case "binomial":
		return glm.BinomialFamily, nil
	case "poisson":
		return glm.PoissonFamily, nil
	default:
		return 0, errors.Newf("unknown family %q", s)
	}
}

func parseLink(s string) (glm.LinkType, error) {
	switch strings.ToLower(s) {
	case "identity":
		return glm.IdentityLink, nil
	case "logit":
		return glm.LogitLink, nil
	case "log":
		return glm.LogLink, nil
	default:
		return 0, errors.Newf("unknown link %q", s)
	}
}

func run(cfg *modelConfig, lg *zap.Logger) error {

	fam, err := parseFamily(cfg.Family)
	if err != nil {
		return err
	}
	link, err := parseLink(cfg.Link)
	if err != nil {
		return err
	}

	f, err := os.Open(cfg.Data)
	if err != nil {
		return errors.Wrap(err, "opening data file")
	}
	defer f.Close()

	ds, err := dataset.FromCSV(f)
	if err != nil {
		return err
	}

	spec := formula.Spec{
		Response:    cfg.Response,
		Categorical: cfg.Categorical,
		NoIntercept: cfg.NoIntercept,
	}
	for _, p := range cfg.Predictors {
		tm, err := formula.ParseTerm(p)
		if err != nil {
			return err
		}
		spec.Terms = append(spec.Terms, tm)
	}

	design, err := formula.Build(ds, spec, formula.Options{
		Weight:  cfg.Weight,
		Cluster: cfg.Cluster,
	})
	if err != nil {
		return err
	}

	lg.Info("design built",
		zap.Int("rows", design.NObs),
		zap.Int("dropped", design.NDropped),
		zap.Strings("columns", design.Names))

	model, err := glm.NewModel(design, fam, link)
	if err != nil {
		return err
	}
	if cfg.Tol > 0 {
		model = model.Tol(cfg.Tol)
	}
	if cfg.MaxIter > 0 {
		model = model.MaxIter(cfg.MaxIter)
	}
	model = model.Log(lg)

	result, err := model.Fit()
	if err != nil {
		var nce *glm.NonConvergenceError
		if !errors.As(err, &nce) {
			return err
		}
		// Report the near-converged estimates anyway; the caller
		// decides whether to trust them.
		lg.Warn("fit did not converge, reporting last iteration",
			zap.Int("iterations", nce.Iterations),
			zap.Float64("deviance", nce.Deviance))
		result = nce.Last
	}

	var cov *glm.Covariance
	if cfg.Robust {
		cov, err = glm.RobustCovariance(result, cfg.Cluster != "")
	} else {
		cov, err = glm.ModelCovariance(result)
	}
	if err != nil {
		return err
	}

	rep, err := glm.NewReport(result, cov, glm.ReportOptions{Exponentiate: cfg.Exponentiate})
	if err != nil {
		return err
	}

	fmt.Println(rep.String())

	return nil
}

func main() {

	cfg := &modelConfig{}
	var cfgPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "glmfit",
		Short: "Fit a generalized linear model to a CSV dataset",
		Long: `glmfit fits a GLM (gaussian-identity, binomial-logit, binomial-log,
or poisson-log) to a CSV dataset and prints a coefficient table with
model-based or robust/cluster-robust standard errors.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {

			if cfgPath != "" {
				raw, err := os.ReadFile(cfgPath)
				if err != nil {
					return errors.Wrap(err, "reading config file")
				}
				if err := yaml.Unmarshal(raw, cfg); err != nil {
					return errors.Wrap(err, "parsing config file")
				}
			}

			lg := zap.NewNop()
			if verbose {
				var err error
				lg, err = zap.NewDevelopment()
				if err != nil {
					return err
				}
				defer lg.Sync()
			}

			return run(cfg, lg)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&cfgPath, "config", "", "YAML model configuration file")
	fl.StringVar(&cfg.Data, "data", "", "CSV data file")
	fl.StringVar(&cfg.Response, "response", "", "response variable")
	fl.StringSliceVar(&cfg.Predictors, "predictors", nil, "predictor terms, x or x:z")
	fl.StringToStringVar(&cfg.Categorical, "categorical", nil, "categorical variables as name=reference")
	fl.StringVar(&cfg.Family, "family", "gaussian", "model family: gaussian, binomial, poisson")
	fl.StringVar(&cfg.Link, "link", "identity", "link function: identity, logit, log")
	fl.StringVar(&cfg.Weight, "weight", "", "prior weight variable")
	fl.StringVar(&cfg.Cluster, "cluster", "", "cluster identifier variable")
	fl.BoolVar(&cfg.NoIntercept, "no-intercept", false, "suppress the intercept column")
	fl.BoolVar(&cfg.Robust, "robust", false, "robust (sandwich) standard errors")
	fl.BoolVar(&cfg.Exponentiate, "exp", false, "report exponentiated estimates")
	fl.Float64Var(&cfg.Tol, "tol", 0, "convergence tolerance (default 1e-8)")
	fl.IntVar(&cfg.MaxIter, "max-iter", 0, "maximum IRLS iterations (default 25)")
	fl.BoolVar(&verbose, "verbose", false, "log fitting progress")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
