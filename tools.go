//go:build tools

package admin

import (
	_ "github.com/dmarkham/enumer"
)
