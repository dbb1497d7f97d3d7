// Package admin provides a generic administrative back-office for Go
// applications that use GORM.
//
// A host application hands over its *gorm.DB, a user model and any number
// of models. The admin serves uniform JSON CRUD routes for each registered
// table, user management with bcrypt password hashing and a bearer-token
// login restricted to superusers.
//
//	cfg, err := config.Load()
//	a, err := admin.New(db, cfg, &User{})
//	err = a.Register(&Order{}, &Product{})
//	http.Handle("/admin/", a.Handler())
//
// The registry is frozen by Handler or Start, after which Register fails.
//
// # Architecture
//
//   - pkg/config: settings from admin.yml, .env and the environment
//   - pkg/registry: table name to model lookup and field allow-lists
//   - pkg/auth: bcrypt hashing and HS256 bearer tokens
//   - pkg/server/store/gorm: record and user services on GORM
//   - pkg/server/endpoints: HTTP routes, landing page and login
//   - pkg/adminerr: the error kinds shared by all of the above
//
// The adminctl command in cmd/adminctl runs a standalone server over a set
// of demo models.
package admin
