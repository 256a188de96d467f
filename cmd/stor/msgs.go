package main

// Message constants
const (
	MsgShort = "Mirror module directories into a target tree with symlinks"
	MsgLong  = `stor mirrors the contents of one or more module directories into a
target directory tree, one symlink (or copy) per leaf entry, merged
alongside whatever the target already contains.

Directories that already exist in the target are merged file by file,
never replaced, so several modules can share them. Removing a module
(-D) deletes only the links and files stor created for it and prunes
directories left empty.

By default the target is your home directory and conflicting content
is left untouched; pass -f to overwrite it, or -n to preview every
action without changing anything.`

	MsgExample = `  # Stow a module into $HOME
  stor vim

  # Stow several modules into an explicit target
  stor -t ~/dotfiles-test vim zsh tmux

  # Preview what would happen
  stor -n vim

  # Remove a stowed module
  stor -D vim

  # Reapply a module (unstow, then stow)
  stor -R vim

  # Copy files instead of linking, replacing what is in the way
  stor -c -f vim`
)
