// Package debug renders POD values as indented text.
//
// Object types, parameter ids, property keys and enumerated values are
// shown by their short registry names when typeinfo knows them:
//
//	Object Format id=EnumFormat
//	  mediaType: Id audio (1)
//	  format: Choice Enum Id
//	    Id F32LE (283)
//	    Id S16LE (259)
//	  rate: Int 48000
package debug

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/parser"
	"github.com/arloliu/pod/typeinfo"
)

const (
	indent       = "  "
	maxBytesShow = 32
)

// Fprint writes the rendering of p to w. Malformed children are rendered as
// an error line; the first such error is returned after the whole value has
// been written.
func Fprint(w io.Writer, p parser.Pod) error {
	pr := &printer{w: w}
	pr.value(0, "", p, nil)

	if pr.werr != nil {
		return pr.werr
	}

	return pr.err
}

// Sprint returns the rendering of p.
func Sprint(p parser.Pod) string {
	var sb strings.Builder
	_ = Fprint(&sb, p)

	return sb.String()
}

type printer struct {
	w    io.Writer
	err  error // first malformed value
	werr error // first write error
}

func (pr *printer) line(depth int, text string) {
	if pr.werr != nil {
		return
	}
	_, pr.werr = fmt.Fprintf(pr.w, "%s%s\n", strings.Repeat(indent, depth), text)
}

func (pr *printer) fail(depth int, label string, err error) {
	if pr.err == nil {
		pr.err = err
	}
	pr.line(depth, label+"!"+err.Error())
}

// value renders p. names, when set, resolves Id values.
func (pr *printer) value(depth int, label string, p parser.Pod, names *typeinfo.Table) {
	switch p.Type() { //nolint: exhaustive
	case format.TypeStruct:
		fields, err := p.Struct()
		if err != nil {
			pr.fail(depth, label, err)
			return
		}
		pr.line(depth, fmt.Sprintf("%sStruct (%d fields)", label, len(fields)))
		for _, f := range fields {
			pr.value(depth+1, "", f, nil)
		}
	case format.TypeObject:
		pr.object(depth, label, p)
	case format.TypeSequence:
		seq, err := p.Sequence()
		if err != nil {
			pr.fail(depth, label, err)
			return
		}
		pr.line(depth, fmt.Sprintf("%sSequence unit=%d", label, seq.Unit))
		for _, c := range seq.Controls {
			pr.value(depth+1, fmt.Sprintf("@%d %s: ", c.Offset, typeinfo.ControlTypes.Short(uint32(c.Type))), c.Value, nil)
		}
	case format.TypeChoice:
		c, err := p.Choice()
		if err != nil {
			pr.fail(depth, label, err)
			return
		}
		pr.line(depth, fmt.Sprintf("%sChoice %s %s", label, c.Kind, typeName(c.ChildType)))
		for _, v := range c.Values {
			pr.value(depth+1, "", v, names)
		}
	case format.TypeArray:
		arr, err := p.Array()
		if err != nil {
			pr.fail(depth, label, err)
			return
		}
		items := make([]string, len(arr.Values))
		for i, v := range arr.Values {
			text, err := scalar(v, names, false)
			if err != nil {
				pr.fail(depth, label, err)
				return
			}
			items[i] = text
		}
		pr.line(depth, fmt.Sprintf("%sArray %s [%s]", label, typeName(arr.ChildType), strings.Join(items, " ")))
	default:
		text, err := scalar(p, names, true)
		if err != nil {
			pr.fail(depth, label, err)
			return
		}
		pr.line(depth, label+text)
	}
}

func (pr *printer) object(depth int, label string, p parser.Pod) {
	obj, err := p.Object()
	if err != nil {
		pr.fail(depth, label, err)
		return
	}

	info, known := typeinfo.Types.ByID(uint32(obj.Type))
	id := strconv.FormatUint(uint64(obj.ID), 10)
	if known && strings.HasPrefix(info.Name, typeinfo.PrefixParamObject) {
		id = typeinfo.ParamIDs.Short(obj.ID)
	}
	pr.line(depth, fmt.Sprintf("%sObject %s id=%s", label, typeinfo.Types.Short(uint32(obj.Type)), id))

	for _, prop := range obj.Props {
		key, ok := info.Values.ByID(prop.Key)
		name := fmt.Sprintf("%#x", prop.Key)
		if ok {
			name = key.ShortName()
		}
		if prop.Flags != 0 {
			name += " [" + flagNames(prop.Flags) + "]"
		}
		pr.value(depth+1, name+": ", prop.Value, key.Values)
	}
}

func flagNames(flags format.PropFlags) string {
	var names []string
	for info := range typeinfo.PropFlags.All() {
		if flags.Has(format.PropFlags(info.ID)) {
			names = append(names, info.ShortName())
			flags &^= format.PropFlags(info.ID)
		}
	}
	if flags != 0 {
		names = append(names, fmt.Sprintf("%#x", uint32(flags)))
	}

	return strings.Join(names, "|")
}

func typeName(t format.Type) string {
	return typeinfo.Types.Short(uint32(t))
}

// scalar renders a non-container value, with its type name when typed is set.
func scalar(p parser.Pod, names *typeinfo.Table, typed bool) (string, error) {
	var text string
	switch p.Type() { //nolint: exhaustive
	case format.TypeNone:
		return "None", nil
	case format.TypeBool:
		v, err := p.Bool()
		if err != nil {
			return "", err
		}
		text = strconv.FormatBool(v)
	case format.TypeID:
		v, err := p.ID()
		if err != nil {
			return "", err
		}
		text = strconv.FormatUint(uint64(v), 10)
		if info, ok := names.ByID(v); ok {
			text = fmt.Sprintf("%s (%d)", info.ShortName(), v)
		}
	case format.TypeInt:
		v, err := p.Int()
		if err != nil {
			return "", err
		}
		text = strconv.FormatInt(int64(v), 10)
	case format.TypeLong:
		v, err := p.Long()
		if err != nil {
			return "", err
		}
		text = strconv.FormatInt(v, 10)
	case format.TypeFloat:
		v, err := p.Float()
		if err != nil {
			return "", err
		}
		text = strconv.FormatFloat(float64(v), 'g', -1, 32)
	case format.TypeDouble:
		v, err := p.Double()
		if err != nil {
			return "", err
		}
		text = strconv.FormatFloat(v, 'g', -1, 64)
	case format.TypeFd:
		v, err := p.Fd()
		if err != nil {
			return "", err
		}
		text = strconv.FormatInt(v, 10)
	case format.TypeString:
		v, err := p.StringValue()
		if err != nil {
			return "", err
		}
		text = strconv.Quote(v)
	case format.TypeRectangle:
		v, err := p.Rectangle()
		if err != nil {
			return "", err
		}
		text = fmt.Sprintf("%dx%d", v.Width, v.Height)
	case format.TypeFraction:
		v, err := p.Fraction()
		if err != nil {
			return "", err
		}
		text = fmt.Sprintf("%d/%d", v.Num, v.Denom)
	case format.TypePointer:
		v, err := p.Pointer()
		if err != nil {
			return "", err
		}
		text = fmt.Sprintf("%s %#x", typeName(v.PointerType), v.Value)
	default:
		body := p.Body()
		text = fmt.Sprintf("%d bytes %x", len(body), body[:min(len(body), maxBytesShow)])
		if len(body) > maxBytesShow {
			text += "..."
		}
	}

	if !typed {
		return text, nil
	}

	return typeName(p.Type()) + " " + text, nil
}
