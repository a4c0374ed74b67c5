// Package charts renders report figures as SVG with go-chart. Each function
// returns nil bytes and no error when its input has nothing to draw.
package charts
