// Package treefile loads VNode trees described in YAML or JSON.
//
// A tree file declares component templates and a root node:
//
//	components:
//	  Card:
//	    tag: section
//	    attrs: {class: card}
//	    children:
//	      - tag: h2
//	        children: ["{title}"]
//	      - tag: slot
//	        children: ["nothing here"]
//	root:
//	  tag: main
//	  children:
//	    - component: Card
//	      key: intro
//	      props: {title: Hello}
//	      children: ["Body text"]
//
// A node is exactly one of text, raw, tag, component or fragment. A bare
// string stands for a text node. Inside a component template, {name} in
// text, attribute values, keys and props is replaced with the prop of that
// name; a value that is nothing but {name} takes the prop's value as is. A
// slot element becomes an outlet whose children are the fallback.
//
// Every component in a document gets one definition, shared by all calls to
// Tree, so trees built from the same document reconcile against each other.
package treefile
