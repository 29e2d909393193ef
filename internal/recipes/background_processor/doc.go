// Package background_processor hosts the recipe that adds Sidekiq-backed
// background jobs to a project.
//
// Decision: `background_processor` (bool). It is inferred as true without
// prompting when the mailer recipe chose a real email service, since mail
// should be delivered from jobs.
//
// When enabled, Create runs three action blocks in order and stops at the
// first failure:
//   - install_sidekiq: Gemfile entry, Active Job adapters, README section,
//     Procfile worker (Heroku projects only), DB_POOL, initializer,
//     config/sidekiq.yml, config/redis.yml and the /queue route
//   - add_docker_compose_redis_config: `redis` service and `redis_data` volume
//   - set_redis_dot_env: REDIS_* variables in .env.development
//
// The Heroku installed-state observed during Install is recorded under
// `heroku_installed` so the heroku recipe's own decision is left alone.
package background_processor
