//go:build shellopts_debug

package shellopts

const debugAsserts = true
