// Package mailer hosts the mailer recipe. It records which email delivery
// service the project uses under the `email_service` decision (none,
// sendgrid or aws_ses) and, for a real provider, declares the provider gem,
// points Action Mailer at it, and seeds the development environment file
// with the credentials it expects.
//
// Other recipes read the decision through the answer store: the background
// processor installs Sidekiq whenever a provider other than none is chosen.
package mailer
