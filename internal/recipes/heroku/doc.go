// Package heroku hosts the deployment-target recipe. Its `heroku` decision
// records whether the project deploys to Heroku; Create writes an app.json
// manifest and the web process declaration. A project counts as installed
// once app.json exists, whether or not this run created it.
package heroku
