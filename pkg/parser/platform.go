package parser

import "strings"

func makeSet(list string) map[string]bool {
	out := make(map[string]bool)
	for _, s := range strings.Split(list, ",") {
		out[s] = true
	}
	return out
}

var htmlTags = makeSet("html,body,base,head,link,meta,style,title," +
	"address,article,aside,footer,header,h1,h2,h3,h4,h5,h6,hgroup,nav,section," +
	"div,dd,dl,dt,figcaption,figure,picture,hr,img,li,main,ol,p,pre,ul," +
	"a,b,abbr,bdi,bdo,br,cite,code,data,dfn,em,i,kbd,mark,q,rp,rt,rtc,ruby," +
	"s,samp,small,span,strong,sub,sup,time,u,var,wbr,area,audio,map,track,video," +
	"embed,object,param,source,canvas,script,noscript,del,ins," +
	"caption,col,colgroup,table,thead,tbody,td,th,tr," +
	"button,datalist,fieldset,form,input,label,legend,meter,optgroup,option," +
	"output,progress,select,textarea," +
	"details,dialog,menu,menuitem,summary," +
	"content,element,shadow,template,blockquote,iframe,tfoot")

var svgTags = makeSet("svg,animate,circle,clippath,cursor,defs,desc,ellipse,filter,font-face," +
	"foreignobject,g,glyph,image,line,marker,mask,missing-glyph,path,pattern," +
	"polygon,polyline,rect,switch,symbol,text,textpath,tspan,use,view")

// IsReservedTag reports HTML and SVG tags, which can never be components.
func IsReservedTag(tag string) bool {
	tag = strings.ToLower(tag)
	return htmlTags[tag] || svgTags[tag]
}

// ReservedTags extends IsReservedTag with extra names, compared case-insensitively.
func ReservedTags(extra ...string) func(tag string) bool {
	if len(extra) == 0 {
		return IsReservedTag
	}
	set := make(map[string]bool, len(extra))
	for _, e := range extra {
		set[strings.ToLower(e)] = true
	}
	return func(tag string) bool {
		return IsReservedTag(tag) || set[strings.ToLower(tag)]
	}
}

// IsPreTag reports the tags whose text content keeps its whitespace.
func IsPreTag(tag string) bool {
	return strings.EqualFold(tag, "pre")
}

// PreTags builds an IsPreTag predicate from a list of tag names.
func PreTags(tags ...string) func(tag string) bool {
	if len(tags) == 0 {
		return IsPreTag
	}
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[strings.ToLower(t)] = true
	}
	return func(tag string) bool {
		return set[strings.ToLower(tag)]
	}
}

func isTextTag(tag string) bool {
	return tag == "script" || tag == "style"
}
