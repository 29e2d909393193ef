package mailer

import (
	"fmt"
	"regexp"

	"github.com/kingrea/recipekit/internal/answers"
	"github.com/kingrea/recipekit/internal/prompt"
	"github.com/kingrea/recipekit/internal/recipe"
)

const (
	// Name is the registry key.
	Name = "mailer"

	// DecisionKey stores the chosen delivery service.
	DecisionKey = "email_service"

	ServiceNone     = "none"
	ServiceSendgrid = "sendgrid"
	ServiceAwsSes   = "aws_ses"

	envFile = ".env.development"
)

type provider struct {
	gem      string
	delivery string
	env      string
}

var providers = map[string]provider{
	ServiceSendgrid: {
		gem:      "send_grid_mailer",
		delivery: "config.action_mailer.delivery_method = :sendgrid",
		env:      "SENDGRID_API_KEY=\n",
	},
	ServiceAwsSes: {
		gem:      "aws-sdk-rails",
		delivery: "config.action_mailer.delivery_method = :ses",
		env:      "AWS_SES_REGION=us-east-1\nAWS_ACCESS_KEY_ID=\nAWS_SECRET_ACCESS_KEY=\n",
	},
}

var providerGems = regexp.MustCompile(`^(send_grid_mailer|aws-sdk-rails)$`)

var options = []prompt.Option{
	{Label: "None", Value: ServiceNone},
	{Label: "SendGrid", Value: ServiceSendgrid},
	{Label: "Amazon SES", Value: ServiceAwsSes},
}

// Recipe configures outgoing email.
type Recipe struct {
	*recipe.Base
}

// Register adds the recipe factory to the registry.
func Register(reg *recipe.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(Name, func(ctx *recipe.Context) (recipe.Recipe, error) {
		return New(ctx), nil
	})
}

// New builds the recipe bound to ctx.
func New(ctx *recipe.Context) *Recipe {
	info := recipe.Info{
		Name:        Name,
		Title:       "Mailer",
		Description: "Chooses an email delivery service and wires Action Mailer to it.",
	}
	return &Recipe{Base: recipe.NewBase(info, ctx)}
}

// DecisionKey implements recipe.Decider.
func (r *Recipe) DecisionKey() string {
	return DecisionKey
}

// Ask records the email service decision.
func (r *Recipe) Ask() error {
	value, err := r.Answer(DecisionKey, func() (answers.Value, error) {
		return r.Select("Which email service do you want to use?", options)
	})
	if err != nil {
		return err
	}
	return r.Set(DecisionKey, value)
}

// Create wires the chosen provider. None, or an undecided answer, changes
// nothing.
func (r *Recipe) Create() error {
	service, ok := r.Get(DecisionKey).Enum()
	if !ok || service == ServiceNone {
		return nil
	}
	p, known := providers[service]
	if !known {
		return fmt.Errorf("mailer: unknown email service %q", service)
	}
	return r.RunAction("install_"+service, func() error {
		tree := r.Tree()
		if _, err := tree.GatherGem(p.gem); err != nil {
			return err
		}
		if _, err := tree.Application(p.delivery, ""); err != nil {
			return err
		}
		_, err := tree.AppendIfAbsent(envFile, p.env)
		return err
	})
}

// Install asks and then creates.
func (r *Recipe) Install() error {
	if err := r.Ask(); err != nil {
		return err
	}
	return r.Create()
}

// Installed reports whether a provider gem is declared.
func (r *Recipe) Installed() (bool, error) {
	return r.Tree().GemExists(providerGems)
}

// Enabled reports whether value names a real provider.
func Enabled(value answers.Value) bool {
	service, ok := value.Enum()
	return ok && service != "" && service != ServiceNone && service != "None"
}
