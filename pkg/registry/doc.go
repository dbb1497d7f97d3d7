// Package registry maps table names to GORM model descriptors.
//
// A Registry is created once with the database handle and the designated
// user model, filled with Register during startup, and frozen before the
// HTTP server begins serving. Every component receives the same *Registry;
// there is no package-level instance.
//
//	reg, err := registry.New(db, registry.Options{
//	    UserModel: &User{},
//	    SecretKey: cfg.SecretKey,
//	    TokenTTL:  cfg.TokenTTL(),
//	})
//	if err != nil {
//	    return err
//	}
//	if err := reg.Register(&Order{}, &Product{}); err != nil {
//	    return err
//	}
//	reg.Freeze()
//
// # Assignment allow-list
//
// A Model only accepts payload keys that name a column of the table, either
// by column name or by the field's JSON tag. Unknown keys fail with an
// adminerr UnknownField error instead of being set blindly.
package registry
