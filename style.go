package sprig

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Properties is a bag of style values keyed by property name, as decoded
// from YAML or TOML.
type Properties map[string]any

// StyleWarning reports a property that was ignored.
type StyleWarning struct {
	Target string
	Key    string
	Reason string
}

func (w StyleWarning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.Target, w.Key, w.Reason)
}

// ErrStyleValue is wrapped by errors for values of the wrong shape.
var ErrStyleValue = errors.New("sprig: bad style value")

type styleSetter[T any] func(t T, v any) error

var spriteStyle = map[string]styleSetter[*Sprite]{
	"pos":   func(s *Sprite, v any) error { return withVec(v, s.SetPos) },
	"x":     func(s *Sprite, v any) error { return withFloat(v, s.SetX) },
	"y":     func(s *Sprite, v any) error { return withFloat(v, s.SetY) },
	"scale": func(s *Sprite, v any) error { return withVec(v, s.SetScale) },
	"angle": func(s *Sprite, v any) error {
		return withFloat(v, func(deg float64) { s.SetAngle(deg * math.Pi / 180) })
	},
	"anchor":  func(s *Sprite, v any) error { return withAnchor(v, s.SetAnchor) },
	"flip_x":  func(s *Sprite, v any) error { return withBool(v, s.SetFlipX) },
	"flip_y":  func(s *Sprite, v any) error { return withBool(v, s.SetFlipY) },
	"layer":   func(s *Sprite, v any) error { return withString(v, s.SetLayer) },
	"visible": func(s *Sprite, v any) error { return withBool(v, s.SetVisible) },
	"blend":   func(s *Sprite, v any) error { return withBlend(v, s.SetBlendMode) },
	"mask":    func(s *Sprite, v any) error { return withRect(v, s.SetMask) },
}

var viewStyle = map[string]styleSetter[*View]{
	"pos":         func(w *View, v any) error { return withVec(v, w.SetPos) },
	"size":        func(w *View, v any) error { return withVec(v, w.SetSize) },
	"output_size": func(w *View, v any) error { return withVec(v, w.SetOutputSize) },
	"scale":       func(w *View, v any) error { return withVec(v, w.SetScale) },
	"crop_size":   func(w *View, v any) error { return withVec(v, w.SetCropSize) },
	"crop":        func(w *View, v any) error { return withBool(v, w.SetCrop) },
	"anchor":      func(w *View, v any) error { return withAnchor(v, w.SetAnchor) },
	"visible":     func(w *View, v any) error { return withBool(v, w.SetVisible) },
	"layer":       func(w *View, v any) error { return withString(v, w.SetLayer) },
	"mask":        func(w *View, v any) error { return withRect(v, w.SetMask) },
	"layers": func(w *View, v any) error {
		names, err := toStrings(v)
		if err != nil {
			return err
		}
		return w.SetLayers(names...)
	},
}

// Stylize applies props to the sprite. Unknown keys produce warnings; a
// value of the wrong shape stops and returns an error.
func (s *Sprite) Stylize(props Properties) ([]StyleWarning, error) {
	return stylize(s, "sprite "+s.name, spriteStyle, props)
}

// Stylize applies props to the view. Unknown keys produce warnings; a value
// of the wrong shape stops and returns an error.
func (v *View) Stylize(props Properties) ([]StyleWarning, error) {
	return stylize(v, "view "+v.name, viewStyle, props)
}

func stylize[T any](t T, target string, schema map[string]styleSetter[T], props Properties) ([]StyleWarning, error) {
	var warnings []StyleWarning
	// Sorted so that errors and warnings are deterministic.
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if k == inheritKey {
			continue
		}
		set, ok := schema[k]
		if !ok {
			w := StyleWarning{Target: target, Key: k, Reason: "unknown property"}
			logger.Warn("ignoring style property", "target", target, "key", k)
			warnings = append(warnings, w)
			continue
		}
		if err := set(t, props[k]); err != nil {
			return warnings, fmt.Errorf("style %s: %s: %w", target, k, err)
		}
	}
	return warnings, nil
}

// --- Style sheets ---

const inheritKey = "inherit"

// StyleSheet maps rule names to properties. A rule may name another rule
// under "inherit"; the parent's properties apply first.
type StyleSheet struct {
	Rules map[string]Properties
}

// LoadStyleSheet reads a YAML or TOML style sheet, chosen by extension.
func LoadStyleSheet(path string) (*StyleSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load style sheet: %w", err)
	}
	sheet, err := ParseStyleSheet(data, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("load style sheet %s: %w", path, err)
	}
	return sheet, nil
}

// ParseStyleSheet decodes a style sheet document. format is "yaml" or
// "toml". Inheritance is validated eagerly.
func ParseStyleSheet(data []byte, format string) (*StyleSheet, error) {
	rules := map[string]Properties{}
	if err := decode(data, format, &rules); err != nil {
		return nil, err
	}
	sheet := &StyleSheet{Rules: rules}
	for name := range rules {
		if _, err := sheet.Resolve(name); err != nil {
			return nil, err
		}
	}
	return sheet, nil
}

// Resolve returns the properties of a rule with its inherited properties
// merged underneath. A missing rule resolves to nil.
func (ss *StyleSheet) Resolve(name string) (Properties, error) {
	return ss.resolve(name, nil)
}

func (ss *StyleSheet) resolve(name string, seen []string) (Properties, error) {
	rule, ok := ss.Rules[name]
	if !ok {
		return nil, nil
	}
	if slices.Contains(seen, name) {
		return nil, fmt.Errorf("%w: cycle %s", ErrUnknownStyleParent, strings.Join(append(seen, name), " -> "))
	}
	out := Properties{}
	if parent, ok := rule[inheritKey]; ok {
		pname, ok := parent.(string)
		if !ok {
			return nil, fmt.Errorf("rule %q: inherit: %w", name, ErrStyleValue)
		}
		if _, ok := ss.Rules[pname]; !ok {
			return nil, fmt.Errorf("%w: rule %q inherits %q", ErrUnknownStyleParent, name, pname)
		}
		base, err := ss.resolve(pname, append(seen, name))
		if err != nil {
			return nil, err
		}
		for k, v := range base {
			out[k] = v
		}
	}
	for k, v := range rule {
		if k != inheritKey {
			out[k] = v
		}
	}
	return out, nil
}

// Apply styles every view and sprite in the scene that has a rule named
// after it. Views are styled before sprites.
func (ss *StyleSheet) Apply(s *Scene) ([]StyleWarning, error) {
	var warnings []StyleWarning
	apply := func(name string, fn func(Properties) ([]StyleWarning, error)) error {
		props, err := ss.Resolve(name)
		if err != nil || props == nil {
			return err
		}
		w, err := fn(props)
		warnings = append(warnings, w...)
		return err
	}
	if err := apply(s.root.name, s.root.Stylize); err != nil {
		return warnings, err
	}
	for _, v := range slices.Clone(s.views) {
		if err := apply(v.name, v.Stylize); err != nil {
			return warnings, err
		}
	}
	for _, sp := range slices.Clone(s.sprites) {
		if err := apply(sp.name, sp.Stylize); err != nil {
			return warnings, err
		}
	}
	return warnings, nil
}

// --- Watching ---

// StyleWatcher reloads a style sheet when its file changes. Reloaded sheets
// are delivered on a channel so they can be applied from the update loop.
type StyleWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	sheets  chan *StyleSheet
	done    chan struct{}
}

// WatchStyleSheet starts watching path. The directory is watched so that
// editors replacing the file by rename are seen.
func WatchStyleSheet(path string) (*StyleWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	sw := &StyleWatcher{
		path:    filepath.Clean(path),
		watcher: w,
		sheets:  make(chan *StyleSheet, 1),
		done:    make(chan struct{}),
	}
	go sw.run()
	return sw, nil
}

func (sw *StyleWatcher) run() {
	defer close(sw.sheets)
	for {
		select {
		case <-sw.done:
			return
		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != sw.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			sheet, err := LoadStyleSheet(sw.path)
			if err != nil {
				logger.Warn("style reload failed", "path", sw.path, "err", err)
				continue
			}
			// Keep only the newest sheet.
			select {
			case <-sw.sheets:
			default:
			}
			sw.sheets <- sheet
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("style watcher", "err", err)
		}
	}
}

// Sheets returns the channel of reloaded sheets. It is closed by Close.
func (sw *StyleWatcher) Sheets() <-chan *StyleSheet { return sw.sheets }

// Poll returns the newest reloaded sheet, or nil if nothing changed.
func (sw *StyleWatcher) Poll() *StyleSheet {
	select {
	case sheet := <-sw.sheets:
		return sheet
	default:
		return nil
	}
}

// Close stops watching.
func (sw *StyleWatcher) Close() error {
	select {
	case <-sw.done:
		return nil
	default:
	}
	close(sw.done)
	return sw.watcher.Close()
}

// --- Value conversion ---

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("%w: want number, got %T", ErrStyleValue, v)
}

func toFloats(v any) ([]float64, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: want list, got %T", ErrStyleValue, v)
	}
	out := make([]float64, len(list))
	for i, e := range list {
		f, err := toFloat(e)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func toStrings(v any) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: want list, got %T", ErrStyleValue, v)
	}
	out := make([]string, len(list))
	for i, e := range list {
		s, ok := e.(string)
		if !ok {
			return nil, fmt.Errorf("%w: want string, got %T", ErrStyleValue, e)
		}
		out[i] = s
	}
	return out, nil
}

// toVec accepts [x, y] or a single number used for both components.
func toVec(v any) (Vec2, error) {
	if f, err := toFloat(v); err == nil {
		return Vec2{f, f}, nil
	}
	vals, err := toFloats(v)
	if err != nil {
		return Vec2{}, err
	}
	return ParseVec2(vals...)
}

func withFloat(v any, set func(float64)) error {
	f, err := toFloat(v)
	if err != nil {
		return err
	}
	set(f)
	return nil
}

func withVec(v any, set func(Vec2)) error {
	vec, err := toVec(v)
	if err != nil {
		return err
	}
	set(vec)
	return nil
}

func withBool(v any, set func(bool)) error {
	b, ok := v.(bool)
	if !ok {
		return fmt.Errorf("%w: want bool, got %T", ErrStyleValue, v)
	}
	set(b)
	return nil
}

func withString(v any, set func(string)) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: want string, got %T", ErrStyleValue, v)
	}
	set(s)
	return nil
}

// withAnchor accepts a named anchor or an [x, y] pixel offset.
func withAnchor(v any, set func(Anchor)) error {
	if name, ok := v.(string); ok {
		a, ok := ParseAnchor(name)
		if !ok {
			return fmt.Errorf("%w: unknown anchor %q", ErrStyleValue, name)
		}
		set(a)
		return nil
	}
	vals, err := toFloats(v)
	if err != nil {
		return err
	}
	p, err := ParseVec2(vals...)
	if err != nil {
		return err
	}
	set(AnchorAt(p.X, p.Y))
	return nil
}

// withRect accepts [x, y, w, h]; null clears the rect.
func withRect(v any, set func(*Rect)) error {
	if v == nil {
		set(nil)
		return nil
	}
	vals, err := toFloats(v)
	if err != nil {
		return err
	}
	r, err := ParseRect(vals...)
	if err != nil {
		return err
	}
	set(&r)
	return nil
}

var blendModes = map[string]BlendMode{
	"normal":   BlendNormal,
	"add":      BlendAdd,
	"multiply": BlendMultiply,
	"screen":   BlendScreen,
	"erase":    BlendErase,
	"none":     BlendNone,
}

func withBlend(v any, set func(BlendMode)) error {
	name, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: want string, got %T", ErrStyleValue, v)
	}
	m, ok := blendModes[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("%w: unknown blend mode %q", ErrStyleValue, name)
	}
	set(m)
	return nil
}
