package publish

import (
	"context"
	"fmt"

	"github.com/FilippTrigub/showNDev/internal/content"
	"github.com/FilippTrigub/showNDev/internal/credentials"
	"github.com/FilippTrigub/showNDev/pkg/clients/bluesky"
	"github.com/FilippTrigub/showNDev/pkg/clients/linkedin"
	"github.com/FilippTrigub/showNDev/pkg/clients/twitter"
	"github.com/FilippTrigub/showNDev/pkg/email"
	"github.com/FilippTrigub/showNDev/pkg/logging"
)

// Publisher routes a publish request to the right platform adapter.
type Publisher interface {
	Publish(ctx context.Context, platform content.Platform, req Request) (*Receipt, error)
}

// Registry builds adapters from the credential store at publish time,
// so credential updates through the dashboard take effect immediately.
type Registry struct {
	creds    credentials.Store
	throttle *Throttle
	logger   logging.Logger

	// overrides replace credential-built adapters, used in tests and
	// for the email adapter when SMTP is wired at startup.
	overrides map[content.Platform]Adapter
}

func NewRegistry(creds credentials.Store, throttle *Throttle, logger logging.Logger) *Registry {
	return &Registry{
		creds:     creds,
		throttle:  throttle,
		logger:    logger,
		overrides: make(map[content.Platform]Adapter),
	}
}

// Register installs a fixed adapter for a platform, bypassing
// credential resolution.
func (r *Registry) Register(adapter Adapter) {
	r.overrides[adapter.Platform()] = adapter
}

func (r *Registry) Publish(ctx context.Context, platform content.Platform, req Request) (*Receipt, error) {
	adapter, err := r.adapterFor(ctx, platform)
	if err != nil {
		return nil, err
	}

	if !r.throttle.Allow(platform) {
		return nil, newError(platform, KindRateLimited,
			fmt.Errorf("publish spacing not elapsed"))
	}

	receipt, err := adapter.Publish(ctx, req)
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(logging.Fields{
		"platform":    string(platform),
		"external_id": receipt.ExternalID,
	}).Info("Published content")
	return receipt, nil
}

func (r *Registry) adapterFor(ctx context.Context, platform content.Platform) (Adapter, error) {
	if adapter, ok := r.overrides[platform]; ok {
		return adapter, nil
	}

	switch platform {
	case content.PlatformTwitter:
		return r.twitterAdapter(ctx)
	case content.PlatformBluesky:
		return r.blueskyAdapter(ctx)
	case content.PlatformLinkedIn:
		return r.linkedinAdapter(ctx)
	case content.PlatformEmail:
		return r.emailAdapter(ctx)
	default:
		return nil, newError(platform, KindValidation,
			fmt.Errorf("no publisher for platform %q", platform))
	}
}

func (r *Registry) twitterAdapter(ctx context.Context) (Adapter, error) {
	vals, err := r.resolve(ctx, content.PlatformTwitter,
		"twitter_api_key", "twitter_api_secret", "twitter_access_token", "twitter_access_token_secret")
	if err != nil {
		return nil, err
	}

	return NewTwitterAdapter(twitter.NewClient(twitter.Config{
		APIKey:            vals["twitter_api_key"],
		APISecret:         vals["twitter_api_secret"],
		AccessToken:       vals["twitter_access_token"],
		AccessTokenSecret: vals["twitter_access_token_secret"],
	})), nil
}

func (r *Registry) blueskyAdapter(ctx context.Context) (Adapter, error) {
	vals, err := r.resolve(ctx, content.PlatformBluesky,
		"bluesky_identifier", "bluesky_app_password")
	if err != nil {
		return nil, err
	}
	serviceURL, err := r.creds.Get(ctx, "bluesky_service_url")
	if err != nil {
		return nil, newError(content.PlatformBluesky, KindTransport, err)
	}

	return NewBlueskyAdapter(bluesky.NewClient(bluesky.Config{
		ServiceURL:  serviceURL,
		Identifier:  vals["bluesky_identifier"],
		AppPassword: vals["bluesky_app_password"],
	})), nil
}

func (r *Registry) linkedinAdapter(ctx context.Context) (Adapter, error) {
	vals, err := r.resolve(ctx, content.PlatformLinkedIn,
		"linkedin_access_token", "linkedin_author_urn")
	if err != nil {
		return nil, err
	}

	return NewLinkedInAdapter(linkedin.NewClient(linkedin.Config{
		AccessToken: vals["linkedin_access_token"],
		AuthorURN:   vals["linkedin_author_urn"],
	})), nil
}

func (r *Registry) emailAdapter(ctx context.Context) (Adapter, error) {
	vals, err := r.resolve(ctx, content.PlatformEmail,
		"email_smtp_host", "email_from", "email_to")
	if err != nil {
		return nil, err
	}

	port, err := r.creds.Get(ctx, "email_smtp_port")
	if err != nil {
		return nil, newError(content.PlatformEmail, KindTransport, err)
	}
	if port == "" {
		port = "587"
	}
	user, err := r.creds.Get(ctx, "email_smtp_user")
	if err != nil {
		return nil, newError(content.PlatformEmail, KindTransport, err)
	}
	password, err := r.creds.Get(ctx, "email_smtp_password")
	if err != nil {
		return nil, newError(content.PlatformEmail, KindTransport, err)
	}

	sender := email.NewSender(email.Config{
		Host:     vals["email_smtp_host"],
		Port:     port,
		User:     user,
		Password: password,
		From:     vals["email_from"],
	})
	return NewEmailAdapter(sender, vals["email_to"]), nil
}

// resolve fetches the named credentials and fails with auth_error when
// any required one is missing.
func (r *Registry) resolve(ctx context.Context, platform content.Platform, names ...string) (map[string]string, error) {
	vals := make(map[string]string, len(names))
	for _, name := range names {
		value, err := r.creds.Get(ctx, name)
		if err != nil {
			return nil, newError(platform, KindTransport, err)
		}
		if value == "" {
			return nil, newError(platform, KindAuth,
				fmt.Errorf("credential %s is not configured", name))
		}
		vals[name] = value
	}
	return vals, nil
}
