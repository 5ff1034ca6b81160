//go:build cachesim_debug

package assert

const Enabled = true
