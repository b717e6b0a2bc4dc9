//go:build loxdebug

package debug

const DEBUG = true
