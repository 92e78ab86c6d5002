// Package display renders tuner readings for the command line.
package display
