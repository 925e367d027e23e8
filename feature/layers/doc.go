// Package layers is the feature tying the catalog reconciler, style fixup
// and cascade deleter together and exposing them over HTTP.
package layers
