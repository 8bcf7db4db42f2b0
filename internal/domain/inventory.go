package domain

import "strings"

// Stack is one occupied inventory slot: one or more identically named
// items sharing a letter key. A stack is never empty; emptying it
// vacates the key.
type Stack struct {
	Name  string     `json:"name"`
	Items []EntityID `json:"items"`
}

// Count returns the number of items in the stack.
func (s *Stack) Count() int {
	return len(s.Items)
}

// Inventory maps single-letter keys from the fixed alphabet to stacks.
// Capacity bounds the number of occupied keys, not the item count.
// Wielded and Armor reference keys, never items; any operation that
// vacates a key also drops references to it.
type Inventory struct {
	Capacity int                  `json:"capacity"`
	Stacks   map[string]*Stack    `json:"stacks"`
	Wielded  string               `json:"wielded,omitempty"`
	Armor    map[ArmorSlot]string `json:"armor,omitempty"`
}

// NewInventory returns an empty inventory. Capacity 0 means the actor
// cannot hold items at all.
func NewInventory(capacity int) *Inventory {
	return &Inventory{
		Capacity: capacity,
		Stacks:   make(map[string]*Stack),
		Armor:    make(map[ArmorSlot]string),
	}
}

// Keys returns the occupied keys in alphabet order.
func (inv *Inventory) Keys() []string {
	keys := make([]string, 0, len(inv.Stacks))
	for _, r := range InventoryKeys {
		key := string(r)
		if _, ok := inv.Stacks[key]; ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// Get returns the stack at key.
func (inv *Inventory) Get(key string) (*Stack, bool) {
	s, ok := inv.Stacks[key]
	return s, ok
}

// KeyFor returns the key holding name, or "" when no stack matches.
func (inv *Inventory) KeyFor(name string) string {
	for _, key := range inv.Keys() {
		if inv.Stacks[key].Name == name {
			return key
		}
	}
	return ""
}

func (inv *Inventory) freeKey() string {
	for _, r := range InventoryKeys {
		key := string(r)
		if _, ok := inv.Stacks[key]; !ok {
			return key
		}
	}
	return ""
}

// Add stores id under the existing stack matching name, or claims the
// first free key. Stacking always succeeds; a fresh key requires a free
// slot within Capacity. Returns the key used.
func (inv *Inventory) Add(id EntityID, name string) (string, error) {
	if key := inv.KeyFor(name); key != "" {
		stack := inv.Stacks[key]
		stack.Items = append(stack.Items, id)
		return key, nil
	}
	if len(inv.Stacks) >= inv.Capacity {
		return "", Impossiblef("Your inventory is full.")
	}
	key := inv.freeKey()
	if key == "" {
		return "", Impossiblef("Your inventory is full.")
	}
	inv.Stacks[key] = &Stack{Name: name, Items: []EntityID{id}}
	return key, nil
}

// RemoveOne takes a single item out of the stack at key. When the last
// item leaves, the key is vacated and equipment references to it drop.
func (inv *Inventory) RemoveOne(key string) (EntityID, bool) {
	stack, ok := inv.Stacks[key]
	if !ok {
		return Nobody, false
	}
	last := len(stack.Items) - 1
	id := stack.Items[last]
	stack.Items = stack.Items[:last]
	if len(stack.Items) == 0 {
		delete(inv.Stacks, key)
		inv.clearRefs(key)
	}
	return id, true
}

// RemoveStack vacates key entirely, dropping equipment references, and
// returns the removed stack.
func (inv *Inventory) RemoveStack(key string) (*Stack, bool) {
	stack, ok := inv.Stacks[key]
	if !ok {
		return nil, false
	}
	delete(inv.Stacks, key)
	inv.clearRefs(key)
	return stack, true
}

// IsEquipped reports whether key is currently wielded or worn.
func (inv *Inventory) IsEquipped(key string) bool {
	if inv.Wielded == key {
		return true
	}
	for _, worn := range inv.Armor {
		if worn == key {
			return true
		}
	}
	return false
}

func (inv *Inventory) clearRefs(key string) {
	if inv.Wielded == key {
		inv.Wielded = ""
	}
	for slot, worn := range inv.Armor {
		if worn == key {
			delete(inv.Armor, slot)
		}
	}
}

// ValidKey reports whether s is a single letter of the key alphabet.
func ValidKey(s string) bool {
	return len(s) == 1 && strings.Contains(InventoryKeys, s)
}
