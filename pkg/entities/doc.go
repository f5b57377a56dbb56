// Package entities holds the persisted records of scripts, keyframes and layers.
//
// Field names are part of the storage format. They carry json, yaml and
// msgpack tags with identical names so every codec produces the same shape.
package entities
