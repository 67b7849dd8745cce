// Package color models Magic mana colors and extracts color identity from
// cost and rules text symbols like {W}, {W/U}, and {2/G}.
package color
