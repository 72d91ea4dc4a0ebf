//go:build !unix && !windows

package wol

func setReuseAddr(_ uintptr) error { return nil }

func setBroadcast(_ uintptr) error { return nil }
