package theme

// NewCatppuccinMocha creates the default Catppuccin Mocha theme.
func NewCatppuccinMocha() *Theme {
	return &Theme{
		Name:   "catppuccin-mocha",
		IsDark: true,

		Primary:   "#cba6f7", // Mauve
		Secondary: "#89b4fa", // Blue
		Tertiary:  "#94e2d5", // Teal

		BgCrust:    "#11111b",
		BgBase:     "#1e1e2e",
		BgSurface0: "#313244",
		BgSurface1: "#45475a",

		FgMuted:  "#6c7086", // Overlay0
		FgSubtle: "#a6adc8", // Subtext0
		FgBase:   "#cdd6f4", // Text
		FgBright: "#ffffff",

		Success: "#a6e3a1",
		Warning: "#f9e2af",
		Error:   "#f38ba8",

		BorderDefault: "#585b70",
		BorderFocused: "#b4befe", // Lavender
	}
}

// NewCatppuccinLatte creates the light Catppuccin Latte theme.
func NewCatppuccinLatte() *Theme {
	return &Theme{
		Name:   "catppuccin-latte",
		IsDark: false,

		Primary:   "#8839ef",
		Secondary: "#1e66f5",
		Tertiary:  "#179299",

		BgCrust:    "#dce0e8",
		BgBase:     "#eff1f5",
		BgSurface0: "#ccd0da",
		BgSurface1: "#bcc0cc",

		FgMuted:  "#9ca0b0",
		FgSubtle: "#6c6f85",
		FgBase:   "#4c4f69",
		FgBright: "#000000",

		Success: "#40a02b",
		Warning: "#df8e1d",
		Error:   "#d20f39",

		BorderDefault: "#acb0be",
		BorderFocused: "#7287fd",
	}
}
