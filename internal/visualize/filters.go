package visualize

import "fmt"

// Each template resolves to one filter_complex string consumed by the
// transcoder. Labeled chains ([waves], [spectrum], ...) must stay unique
// within a graph; the final chain is left unlabeled so the output pad is the
// implicit result.

var registry = map[string]*Mode{
	"waves": {
		Name:        "waves",
		Description: "Classic oscilloscope waveform",
		Fallback:    "",
		build: func(o Options) string {
			return fmt.Sprintf("showwaves=s=%dx%d:mode=line:colors=%s:rate=%d,format=rgb24",
				o.Width, o.Height, o.Scheme.WaveColors, o.FPS)
		},
	},
	"spectrum": {
		Name:        "spectrum",
		Description: "Frequency spectrum sonogram",
		Fallback:    "waves",
		build: func(o Options) string {
			return fmt.Sprintf("showspectrum=s=%dx%d:mode=combined:color=%s,format=rgb24",
				o.Width, o.Height, o.Scheme.Spectrum)
		},
	},
	"cqt": {
		Name:        "cqt",
		Description: "Constant-Q transform with bar graph",
		Fallback:    "waves",
		build: func(o Options) string {
			return fmt.Sprintf("showcqt=s=%dx%d:cscheme=%s:bar_v=1:bar_g=3,format=rgb24",
				o.Width, o.Height, o.Scheme.CQT)
		},
	},
	"combo": {
		Name:        "combo",
		Description: "Waveform blended over the spectrum",
		Fallback:    "spectrum",
		build: func(o Options) string {
			return fmt.Sprintf("[0:a]asplit=2[aw][as];"+
				"[aw]showwaves=s=%dx%d:mode=line:colors=%s[waves];"+
				"[as]showspectrum=s=%dx%d:mode=combined:color=%s[spectrum];"+
				"[waves][spectrum]blend=all_mode=addition,format=rgb24",
				o.Width, o.Height, o.Scheme.WaveColors,
				o.Width, o.Height, o.Scheme.Spectrum)
		},
	},
	"edge": {
		Name:        "edge",
		Description: "Edge-detected constant-Q bands",
		Fallback:    "cqt",
		build: func(o Options) string {
			return fmt.Sprintf("[0:a]showcqt=s=%dx%d:cscheme=%s[cqt];"+
				"[cqt]edgedetect=low=0.1:high=0.4,format=rgb24",
				o.Width, o.Height, o.Scheme.CQT)
		},
	},
	"kaleidoscope": {
		Name:        "kaleidoscope",
		Description: "Mirrored spectrum quadrants",
		Fallback:    "spectrum",
		build: func(o Options) string {
			// The kaleidoscope effect is built from crop+mirror stacking;
			// the transcoder has no single kaleidoscope filter in stable
			// builds.
			return fmt.Sprintf("[0:a]showspectrum=s=%dx%d:slide=replace:mode=combined:color=%s[vis];"+
				"[vis]split=2[l][r];"+
				"[l]crop=iw/2:ih:0:0[left];"+
				"[r]crop=iw/2:ih:0:0,hflip[right];"+
				"[left][right]hstack,format=rgb24",
				o.Width, o.Height, o.Scheme.Spectrum)
		},
	},
	"neural": {
		Name:        "neural",
		Description: "Band-split triple stack with drifting hue",
		Fallback:    "spectrum",
		build: func(o Options) string {
			// Each showcqt band needs at least 30 rows; fall back to a flat
			// spectrum when the canvas is too short to split in three.
			const minBand = 30
			if o.Height < minBand*3 {
				return fmt.Sprintf("showspectrum=s=%dx%d:mode=combined:color=%s,format=rgb24",
					o.Width, o.Height, o.Scheme.Spectrum)
			}
			band := o.Height / 3
			return fmt.Sprintf("[0:a]asplit=3[bass][mid][high];"+
				"[bass]bandpass=f=100:width_type=h:w=200[fb];"+
				"[mid]bandpass=f=1000:width_type=h:w=800[fm];"+
				"[high]highpass=f=4000[fh];"+
				"[fb]showwaves=s=%dx%d:mode=cline:colors=0x00ffff[wb];"+
				"[fm]showspectrum=s=%dx%d:slide=scroll:mode=combined:color=%s[sm];"+
				"[fh]showcqt=s=%dx%d:count=8:gamma=5[ch];"+
				"[wb][sm][ch]vstack=inputs=3,"+
				"hue='h=t/20':s='1+sin(t/10)/4',format=rgb24",
				o.Width, band,
				o.Width, band, o.Scheme.Spectrum,
				o.Width, band)
		},
	},
	"typography": {
		Name:        "typography",
		Description: "Vectorscope with pulsing title typography",
		Fallback:    "waves",
		build: func(o Options) string {
			return fmt.Sprintf("[0:a]asplit=2[a1][a2];"+
				"[a1]showwaves=s=%dx%d:mode=cline:draw=full:colors=0xffffff[bg];"+
				"[a2]avectorscope=s=%dx%d:zoom=1.5:draw=full[fg];"+
				"[bg][fg]blend=all_mode=screen:all_opacity=0.8,"+
				"drawtext=text='AUDIO':fontsize=w/5:x=(w-text_w)/2:y=(h-text_h)/2:"+
				"fontcolor=ffffff@0.8:enable='between(mod(t\\,2)\\,0\\,0.3)',"+
				"drawtext=text='SYMPHONY':fontsize=w/8:x=(w-text_w)/2:y=(h-text_h)/2+h/4:"+
				"fontcolor=00ffff@0.6:enable='between(mod(t\\,2)\\,0.3\\,0.6)',"+
				"format=rgb24",
				o.Width, o.Height, o.Width, o.Height)
		},
	},
	"particles": {
		Name:        "particles",
		Description: "Rotating blended particle trails",
		Fallback:    "waves",
		build: func(o Options) string {
			return fmt.Sprintf("[0:a]asplit=2[a][b];"+
				"[a]showwaves=s=%dx%d:mode=cline:rate=%d[waves];"+
				"[b]showspectrum=s=%dx%d:slide=scroll:mode=combined:color=%s[spectrum];"+
				"[waves][spectrum]blend=all_mode=screen:all_opacity=0.5,format=rgba,"+
				"split=3[s1][s2][s3];"+
				"[s1]rotate=angle='t/10':fillcolor=0x00000000[r1];"+
				"[s2]rotate=angle='-t/15':fillcolor=0x00000000[r2];"+
				"[s3]rotate=angle='sin(t)*PI/4':fillcolor=0x00000000[r3];"+
				"[r1][r2]blend=all_mode=lighten[r12];"+
				"[r12][r3]blend=all_mode=lighten,format=rgb24",
				o.Width, o.Height, o.FPS,
				o.Width, o.Height, o.Scheme.Spectrum)
		},
	},
	"fractal": {
		Name:        "fractal",
		Description: "Recursive constant-Q quadrant tiling",
		Fallback:    "cqt",
		build: func(o Options) string {
			return fmt.Sprintf("[0:a]showcqt=s=%dx%d:count=12:attack=0.5:gamma=4:sono_v=fim,"+
				"split=4[q1][q2][q3][q4];"+
				"[q1]crop=iw/2:ih/2:0:0,scale=%dx%d[c1];"+
				"[q2]crop=iw/2:ih/2:iw/2:0,scale=%dx%d[c2];"+
				"[q3]crop=iw/2:ih/2:0:ih/2,scale=%dx%d[c3];"+
				"[q4]crop=iw/2:ih/2:iw/2:ih/2,scale=%dx%d[c4];"+
				"[c1][c2]hstack[top];"+
				"[c3][c4]hstack[bottom];"+
				"[top][bottom]vstack,hue='h=t/15',format=rgb24",
				o.Width, o.Height,
				o.Width, o.Height, o.Width, o.Height,
				o.Width, o.Height, o.Width, o.Height)
		},
	},
	"vortex": {
		Name:        "vortex",
		Description: "Rotating spectrum vortex with hue sweep",
		Fallback:    "waves",
		build: func(o Options) string {
			return fmt.Sprintf("[0:a]showspectrum=s=%dx%d:slide=replace:mode=combined:color=%s[spec];"+
				"[spec]rotate=angle='t*2':fillcolor=black@0.5,"+
				"hue=h='2*PI*t':s=1.5,format=rgb24",
				o.Width, o.Height, o.Scheme.Spectrum)
		},
	},
	"motion": {
		Name:          "motion",
		Description:   "Datamosh motion vectors painted over the source video",
		Fallback:      "waves",
		RequiresVideo: true,
		// codecview only sees motion vectors when the decoder exports
		// them, which takes -flags2 +export_mvs on the input.
		inputFlags: []string{"-flags2", "+export_mvs"},
		build: func(o Options) string {
			return fmt.Sprintf("[0:v]split[original][motion];"+
				"[motion]codecview=mv=pf+bf+bb[vectors];"+
				"[vectors]hue=h='sin(2*PI*t)*360':s=1.2[painted];"+
				"[painted][original]blend=all_mode=screen:all_opacity=0.7,"+
				"eq=contrast=1.8:brightness=0.1:gamma=1.2,"+
				"scale=%dx%d,fps=%d,format=rgb24",
				o.Width, o.Height, o.FPS)
		},
	},
	"spectrosynth": {
		Name:        "spectrosynth",
		Description: "Frequency, spectrum, and waveform triple stack",
		Fallback:    "spectrum",
		build: func(o Options) string {
			band := o.Height / 3
			if band < 1 {
				band = o.Height
			}
			return fmt.Sprintf("[0:a]asplit=3[main][spec][wave];"+
				"[main]showfreqs=s=%dx%d:fscale=log:win_size=2048[freqs];"+
				"[spec]showspectrum=s=%dx%d:mode=combined:slide=scroll:color=%s[spectrum];"+
				"[wave]showwaves=s=%dx%d:mode=p2p:split_channels=1[waves];"+
				"[freqs][spectrum][waves]vstack=inputs=3,format=rgb24",
				o.Width, band,
				o.Width, band, o.Scheme.Spectrum,
				o.Width, band)
		},
	},
}
