// Package restorebook reverts a soft delete.
package restorebook
