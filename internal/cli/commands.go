package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/pageza/recipe-share/backend/pkg/client"
)

func signupCmd() *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "Create an account from --username and --password",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireCredentials(cmd); err != nil {
				return err
			}
			user, err := newClient(cmd).Register(ctx, cmd.String("username"), cmd.String("password"))
			if err != nil {
				return fmt.Errorf("signup failed: %w", err)
			}
			return render(cmd, user)
		},
	}
}

func loginCmd() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Print a bearer token for --username and --password",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireCredentials(cmd); err != nil {
				return err
			}
			token, err := newClient(cmd).Login(ctx, cmd.String("username"), cmd.String("password"))
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			return render(cmd, map[string]string{"token": token})
		},
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List recipes, optionally by author or tag",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sort-by", Usage: "createdAt, updatedAt or title"},
			&cli.StringFlag{Name: "sort-order", Usage: "ascending or descending"},
			&cli.StringFlag{Name: "author", Usage: "Only recipes by this username"},
			&cli.StringFlag{Name: "tag", Usage: "Only recipes carrying this tag"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			recipes, err := newClient(cmd).ListRecipes(ctx, client.ListQuery{
				SortBy:    cmd.String("sort-by"),
				SortOrder: cmd.String("sort-order"),
				Author:    cmd.String("author"),
				Tag:       cmd.String("tag"),
			})
			if err != nil {
				return fmt.Errorf("list failed: %w", err)
			}
			return render(cmd, recipes)
		},
	}
}

func getCmd() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show one recipe",
		ArgsUsage: "ID",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := requireArg(cmd, "recipe ID")
			if err != nil {
				return err
			}
			recipe, err := newClient(cmd).GetRecipe(ctx, id)
			if err != nil {
				return fmt.Errorf("get failed: %w", err)
			}
			return render(cmd, recipe)
		},
	}
}

func recipeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Usage: "Recipe title"},
		&cli.StringSliceFlag{Name: "ingredient", Aliases: []string{"i"}, Usage: "Ingredient, repeatable"},
		&cli.StringFlag{Name: "instructions", Usage: "Preparation steps"},
		&cli.StringFlag{Name: "image-url", Usage: "Image URL"},
		&cli.StringSliceFlag{Name: "tag", Usage: "Tag, repeatable"},
	}
}

func createCmd() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a recipe",
		Flags: recipeFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireCredentials(cmd); err != nil {
				return err
			}
			recipe, err := newClient(cmd).CreateRecipe(ctx, client.RecipeInput{
				Title:        cmd.String("title"),
				Ingredients:  cmd.StringSlice("ingredient"),
				Instructions: cmd.String("instructions"),
				ImageURL:     cmd.String("image-url"),
				Tags:         cmd.StringSlice("tag"),
			})
			if err != nil {
				return fmt.Errorf("create failed: %w", err)
			}
			return render(cmd, recipe)
		},
	}
}

// patchFromFlags sets only the fields whose flags were given.
func patchFromFlags(cmd *cli.Command) client.RecipePatch {
	var patch client.RecipePatch
	if cmd.IsSet("title") {
		v := cmd.String("title")
		patch.Title = &v
	}
	if cmd.IsSet("ingredient") {
		v := cmd.StringSlice("ingredient")
		patch.Ingredients = &v
	}
	if cmd.IsSet("instructions") {
		v := cmd.String("instructions")
		patch.Instructions = &v
	}
	if cmd.IsSet("image-url") {
		v := cmd.String("image-url")
		patch.ImageURL = &v
	}
	if cmd.IsSet("tag") {
		v := cmd.StringSlice("tag")
		patch.Tags = &v
	}
	return patch
}

func updateCmd() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Change the given fields of a recipe you authored",
		ArgsUsage: "ID",
		Flags:     recipeFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := requireArg(cmd, "recipe ID")
			if err != nil {
				return err
			}
			if err := requireCredentials(cmd); err != nil {
				return err
			}
			recipe, err := newClient(cmd).UpdateRecipe(ctx, id, patchFromFlags(cmd))
			if err != nil {
				return fmt.Errorf("update failed: %w", err)
			}
			return render(cmd, recipe)
		},
	}
}

func deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a recipe you authored",
		ArgsUsage: "ID",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := requireArg(cmd, "recipe ID")
			if err != nil {
				return err
			}
			if err := requireCredentials(cmd); err != nil {
				return err
			}
			if err := newClient(cmd).DeleteRecipe(ctx, id); err != nil {
				return fmt.Errorf("delete failed: %w", err)
			}
			return render(cmd, map[string]string{"deleted": id})
		},
	}
}

func likeCmd() *cli.Command {
	return &cli.Command{
		Name:      "like",
		Usage:     "Like a recipe, or unlike it if you already do",
		ArgsUsage: "ID",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := requireArg(cmd, "recipe ID")
			if err != nil {
				return err
			}
			if err := requireCredentials(cmd); err != nil {
				return err
			}
			recipe, err := newClient(cmd).ToggleLike(ctx, id)
			if err != nil {
				return fmt.Errorf("like failed: %w", err)
			}
			return render(cmd, recipe)
		},
	}
}
