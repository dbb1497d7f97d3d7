// Command adminctl runs the admin server and its maintenance tasks.
//
// Settings come from /etc/admin-in-go/admin.yml (or ADMIN_CONFIG_PATH), a
// .env file (or ADMIN_ENV_FILE) and the environment, in increasing order of
// precedence.
//
//	# Start the server
//	export SECRET_KEY=... DATABASE_URL=postgres://...
//	adminctl server
//
//	# Create the first superuser
//	adminctl user create --username admin --password ... --superuser
//
//	# Mint a token without going through /login
//	adminctl token issue --subject 1 --superuser
//
// # Environment Variables
//
//   - SECRET_KEY: HMAC key for bearer tokens (required)
//   - DATABASE_URL: PostgreSQL connection string (required)
//   - TOKEN_EXPIRATION_MINUTES: token lifetime (default: 60)
//   - ADMIN_LOG_LEVEL, ADMIN_LOG_FORMAT: logrus level and text or json
//   - ADMIN_BASE_PATH: URL prefix for every route
//   - ADMIN_CORS_ORIGINS: comma-separated allowed origins
//   - BIND_ADDRESS, PORT: listen address (default: 0.0.0.0:8000)
package main
